package models

// Toast variants.
const (
	VariantDefault     = "default"
	VariantDestructive = "destructive"
)

// Toast is a transient user-facing notification.
type Toast struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Variant     string `json:"variant"`
}
