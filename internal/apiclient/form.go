package apiclient

import (
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/Fuonder/bmadsoffice/internal/models"
)

// Form is a multipart/form-data body.
type Form struct {
	Fields map[string]string
	Files  []models.Upload
}

func NewForm() *Form {
	return &Form{Fields: make(map[string]string)}
}

func (f *Form) Set(key, value string) *Form {
	f.Fields[key] = value
	return f
}

func (f *Form) SetInt(key string, value int) *Form {
	return f.Set(key, strconv.Itoa(value))
}

func (f *Form) SetBool(key string, value bool) *Form {
	return f.Set(key, strconv.FormatBool(value))
}

func (f *Form) SetDecimal(key string, value decimal.Decimal) *Form {
	return f.Set(key, value.String())
}

// SetOptional skips empty values so the remote API keeps its stored value.
func (f *Form) SetOptional(key, value string) *Form {
	if value == "" {
		return f
	}
	return f.Set(key, value)
}

func (f *Form) Attach(u *models.Upload) *Form {
	if u != nil && len(u.Content) > 0 {
		f.Files = append(f.Files, *u)
	}
	return f
}

// AttachAs adds u under the given part name without modifying u.
func (f *Form) AttachAs(field string, u *models.Upload) *Form {
	if u == nil {
		return f
	}
	part := *u
	part.FieldName = field
	return f.Attach(&part)
}
