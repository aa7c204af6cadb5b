package models

// Upload is a file part forwarded to the remote API unchanged.
type Upload struct {
	FieldName string
	FileName  string
	Content   []byte
}
