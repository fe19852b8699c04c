package delete_climber_token

// DeleteRequest HTTP request model
type DeleteRequest struct {
	TokenID int64 `json:"tokenId"`
}

// DeleteResponse HTTP response model
type DeleteResponse struct {
	Success bool `json:"success"`
}
