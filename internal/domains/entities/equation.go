package entities

// Equation is one challenge item from the persisted catalog.
// The json tags match what match clients render.
type Equation struct {
	EquationId string `dynamodbav:"EquationId" json:"id"`
	Latex      string `dynamodbav:"Latex"      json:"latex"`
	Category   string `dynamodbav:"Category"   json:"category,omitempty"`
	Difficulty string `dynamodbav:"Difficulty" json:"difficulty,omitempty"`
	Active     bool   `dynamodbav:"Active"     json:"-"`
}
