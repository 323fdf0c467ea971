package domain

type Airline struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	LogoURL string `json:"logo_url,omitempty"`
}

type Aircraft struct {
	ID                 int64  `json:"id"`
	AirlineID          int64  `json:"airline_id"`
	Model              string `json:"model"`
	Capacity           int    `json:"capacity"`
	RegistrationNumber string `json:"registration_number"`
}
