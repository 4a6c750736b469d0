package models

// AnimalProfile is the fixed-shape result extracted from the vision model's
// free-text answer. Every field is always populated; the parser fills gaps
// with defaults so clients never see missing keys.
type AnimalProfile struct {
	CommonName     string `json:"commonName"`
	ScientificName string `json:"scientificName"`
	Size           string `json:"size"`
	Habitat        string `json:"habitat"`
	Diet           string `json:"diet"`
	FunFact        string `json:"funFact"`
	Category       string `json:"category"`
}
