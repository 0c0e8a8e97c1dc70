package models

type Breed struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Temperament  string `json:"temperament,omitempty"`
	Origin       string `json:"origin,omitempty"`
	Description  string `json:"description,omitempty"`
	LifeSpan     string `json:"life_span,omitempty"`
	WikipediaURL string `json:"wikipedia_url,omitempty"`
}
