package dto

type ViewingListDTO struct {
	ID              uint   `json:"id"`
	Reference       string `json:"reference"`
	ViewingDate     string `json:"viewing_date"`
	ViewingTime     string `json:"viewing_time"`
	EndTime         string `json:"end_time"`
	Status          string `json:"status"`
	PropertyID      uint   `json:"property_id"`
	PropertyTitle   string `json:"property_title"`
	PropertyAddress string `json:"property_address"`
	VisitorName     string `json:"visitor_name"`
	VisitorPhone    string `json:"visitor_phone"`
	PartySize       int    `json:"party_size"`
}
