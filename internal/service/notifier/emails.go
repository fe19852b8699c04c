package notifier

import (
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/TrekBookingService/internal/domain"
)

const displayDateFormat = "2 January 2006"

// Composer собирает тексты писем
type Composer struct {
	baseURL     string
	companyName string
	staffEmail  string
}

// NewComposer создает сборщик писем; baseURL без завершающего "/"
func NewComposer(baseURL, companyName, staffEmail string) *Composer {
	return &Composer{
		baseURL:     strings.TrimRight(baseURL, "/"),
		companyName: companyName,
		staffEmail:  staffEmail,
	}
}

// ClimberLink ссылка на форму данных участника по токену
func (c *Composer) ClimberLink(code string) string {
	return c.baseURL + "/climber-details/" + code
}

// ManageLink ссылка лида на управление данными участников
func (c *Composer) ManageLink(bookingRef string) string {
	return c.baseURL + "/manage-climbers/" + bookingRef
}

// ClimberRequest письмо участнику со ссылкой на его форму
func (c *Composer) ClimberRequest(booking *domain.Booking, departure *domain.GroupDeparture, token *domain.ClimberToken) domain.Email {
	var b strings.Builder

	fmt.Fprintf(&b, "%s,\n\n", greeting(token.ClimberName))
	fmt.Fprintf(&b, "%s has booked you a place on %s (%s).\n",
		booking.LeadName, departure.RouteName, dateRange(departure))
	b.WriteString("Before we can finalise permits and logistics we need a few personal details from you.\n\n")
	fmt.Fprintf(&b, "Please complete your details here:\n%s\n\n", c.ClimberLink(token.Code))
	fmt.Fprintf(&b, "This link is personal and expires on %s.\n\n", token.ExpiresAt.Format(displayDateFormat))
	b.WriteString(c.signature())

	return domain.Email{
		Kind:    domain.EmailClimberRequest,
		To:      stringValue(token.Email),
		Subject: fmt.Sprintf("Your details for %s - booking %s", departure.RouteName, booking.BookingRef),
		Body:    b.String(),
	}
}

// LeadSummary письмо лиду со списком ссылок участников; истекшие ссылки помечаются
func (c *Composer) LeadSummary(booking *domain.Booking, departure *domain.GroupDeparture, tokens []*domain.ClimberToken, now time.Time) domain.Email {
	var b strings.Builder

	fmt.Fprintf(&b, "Hi %s,\n\n", booking.LeadName)
	fmt.Fprintf(&b, "Thank you for your deposit for %s (%s).\n", departure.RouteName, dateRange(departure))
	b.WriteString("Each climber in your group has a personal link for their details. ")
	b.WriteString("Please forward each link to the right person:\n\n")

	for _, t := range tokens {
		fmt.Fprintf(&b, "  Climber %d", t.ClimberIndex+1)
		if t.ClimberName != nil && *t.ClimberName != "" {
			fmt.Fprintf(&b, " (%s)", *t.ClimberName)
		}
		if t.IsExpired(now) {
			b.WriteString(": link expired, reply to this email and we will send a new one\n")
			continue
		}
		fmt.Fprintf(&b, ": %s\n", c.ClimberLink(t.Code))
	}

	fmt.Fprintf(&b, "\nYou can also fill in everyone's details yourself at %s using your booking reference %s.\n\n",
		c.ManageLink(booking.BookingRef), booking.BookingRef)
	b.WriteString(c.signature())

	return domain.Email{
		Kind:    domain.EmailLeadSummary,
		To:      booking.LeadEmail,
		Subject: fmt.Sprintf("Climber details links - booking %s", booking.BookingRef),
		Body:    b.String(),
	}
}

// Reminder напоминание участнику; стадия 3d помечается как срочная
func (c *Composer) Reminder(booking *domain.Booking, departure *domain.GroupDeparture, token *domain.ClimberToken, stage domain.ReminderStage) domain.Email {
	var b strings.Builder

	kind := domain.EmailReminder
	subject := fmt.Sprintf("Reminder: your details for %s", departure.RouteName)
	days := 7
	if stage == domain.ReminderThreeDays {
		kind = domain.EmailFinalReminder
		subject = fmt.Sprintf("Urgent: 3 days left to submit your details for %s", departure.RouteName)
		days = 3
	}

	fmt.Fprintf(&b, "%s,\n\n", greeting(token.ClimberName))
	fmt.Fprintf(&b, "We are still waiting for your details for %s (%s).\n", departure.RouteName, dateRange(departure))
	fmt.Fprintf(&b, "Your personal link expires in about %d days, on %s:\n%s\n\n",
		days, token.ExpiresAt.Format(displayDateFormat), c.ClimberLink(token.Code))
	fmt.Fprintf(&b, "Booking reference: %s\n\n", booking.BookingRef)
	b.WriteString(c.signature())

	return domain.Email{
		Kind:    kind,
		To:      stringValue(token.Email),
		Subject: subject,
		Body:    b.String(),
	}
}

// StaffDetailsSubmitted письмо сотрудникам о заполненных данных участника
func (c *Composer) StaffDetailsSubmitted(booking *domain.Booking, details *domain.ClimberDetails, completed int, viaLead bool) domain.Email {
	source := "the climber"
	if viaLead {
		source = "the lead climber"
	}

	body := fmt.Sprintf(
		"Climber %d (%s, %s) on booking %s was submitted by %s.\n\n%d of %d climbers complete.\n",
		details.ClimberIndex+1, details.Name, details.Email, booking.BookingRef, source,
		completed, booking.TotalClimbers,
	)

	return domain.Email{
		Kind:    domain.EmailStaffDetails,
		To:      c.staffEmail,
		Subject: fmt.Sprintf("Climber details received - %s (%d/%d)", booking.BookingRef, completed, booking.TotalClimbers),
		Body:    body,
	}
}

// BookingReceived подтверждение лиду о получении бронирования
func (c *Composer) BookingReceived(booking *domain.Booking, departure *domain.GroupDeparture) domain.Email {
	var b strings.Builder

	fmt.Fprintf(&b, "Hi %s,\n\n", booking.LeadName)
	fmt.Fprintf(&b, "We have received your booking for %s (%s) for %d climber(s).\n",
		departure.RouteName, dateRange(departure), booking.TotalClimbers)
	fmt.Fprintf(&b, "Total price: USD %.2f\n", booking.TotalPrice)
	fmt.Fprintf(&b, "Your booking reference is %s.\n\n", booking.BookingRef)
	b.WriteString("Our team will contact you shortly with deposit instructions.\n\n")
	b.WriteString(c.signature())

	return domain.Email{
		Kind:    domain.EmailBookingReceived,
		To:      booking.LeadEmail,
		Subject: fmt.Sprintf("Booking received - %s", booking.BookingRef),
		Body:    b.String(),
	}
}

// StaffNewBooking письмо сотрудникам о новом бронировании
func (c *Composer) StaffNewBooking(booking *domain.Booking, departure *domain.GroupDeparture, partner *domain.Partner) domain.Email {
	var b strings.Builder

	fmt.Fprintf(&b, "New booking %s (%s)\n\n", booking.BookingRef, booking.ID)
	fmt.Fprintf(&b, "Departure: %s (%s)\n", departure.RouteName, dateRange(departure))
	fmt.Fprintf(&b, "Lead: %s <%s>", booking.LeadName, booking.LeadEmail)
	if booking.LeadPhone != nil {
		fmt.Fprintf(&b, ", %s", *booking.LeadPhone)
	}
	fmt.Fprintf(&b, "\nClimbers: %d\nTotal: USD %.2f\n", booking.TotalClimbers, booking.TotalPrice)
	if partner != nil {
		fmt.Fprintf(&b, "Referral partner: %s (%s)\n", partner.Name, partner.ReferralCode)
	}

	return domain.Email{
		Kind:    domain.EmailStaffNewBooking,
		To:      c.staffEmail,
		Subject: fmt.Sprintf("New booking %s - %s", booking.BookingRef, departure.RouteName),
		Body:    b.String(),
	}
}

func (c *Composer) signature() string {
	return fmt.Sprintf("Kind regards,\n%s\n", c.companyName)
}

func greeting(name *string) string {
	if name != nil && strings.TrimSpace(*name) != "" {
		return "Hi " + strings.TrimSpace(*name)
	}
	return "Hello"
}

func dateRange(d *domain.GroupDeparture) string {
	return d.StartDate.Format(displayDateFormat) + " - " + d.EndDate.Format(displayDateFormat)
}

func stringValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
