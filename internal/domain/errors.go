package domain

// Failure is a conversion failure whose Message is safe to show to the client.
type Failure struct {
	Message string
}

func (f *Failure) Error() string { return f.Message }

var (
	ErrMissingParameters  = &Failure{Message: "Missing parameters"}
	ErrInvalidPlanet      = &Failure{Message: "Invalid planet"}
	ErrInvalidWeight      = &Failure{Message: "Invalid weight"}
	ErrTemplateNotFound   = &Failure{Message: "Template not found"}
	ErrTemplateUnreadable = &Failure{Message: "Template not readable"}
)
