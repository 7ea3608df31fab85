// Package forms defines one input struct per HTML/API form, each carrying
// explicit validation rules. Handlers bind a request into the struct, run
// validate.Struct and return the field-level error map untouched.
package forms

import (
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/aurelben/boutiq/app/models"
	"github.com/aurelben/boutiq/pkg/validate"
)

// RegisterForm is the sign-up input.
type RegisterForm struct {
	Username             string `json:"username"              validate:"required,alpha_dash,min=2,max=20"`
	Email                string `json:"email"                 validate:"required,email"`
	Password             string `json:"password"              validate:"required,min=6,confirmed"`
	PasswordConfirmation string `json:"password_confirmation"`
}

// LoginForm is the sign-in input.
type LoginForm struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
	Remember bool   `json:"remember"`
}

// UpdateAccountForm changes profile fields; the password is only replaced
// when one is submitted.
type UpdateAccountForm struct {
	Username             string `json:"username"              validate:"required,alpha_dash,min=2,max=20"`
	Email                string `json:"email"                 validate:"required,email"`
	Password             string `json:"password"              validate:"nullable,min=6,confirmed"`
	PasswordConfirmation string `json:"password_confirmation"`
}

// ColorSlot is one of the three fixed colour slots on the product form.
// A slot with an empty name is skipped entirely and never becomes a
// placeholder colour.
type ColorSlot struct {
	Name  string
	Image *multipart.FileHeader
}

// ProductForm is the admin create/edit input. The image fields arrive as
// multipart uploads and are not validated here; the image pipeline treats
// unreadable uploads as absent.
type ProductForm struct {
	Name        string  `json:"name"        validate:"required,max=100"`
	Price       float64 `json:"price"       validate:"required,gte=0"`
	Description string  `json:"description" validate:"required"`
	Stock       int     `json:"stock"`

	Image  *multipart.FileHeader `json:"-"`
	Colors [models.MaxColors]ColorSlot `json:"-"`
}

// ProductFormFromRequest reads a multipart product form. Numeric fields
// that fail to parse are left at zero and caught by validation.
func ProductFormFromRequest(r *http.Request) (*ProductForm, map[string]string) {
	f := &ProductForm{
		Name:        r.FormValue("name"),
		Description: r.FormValue("description"),
	}
	f.Price, _ = strconv.ParseFloat(r.FormValue("price"), 64)
	f.Stock, _ = strconv.Atoi(r.FormValue("stock"))

	f.Image = fileHeader(r, "image")
	for i := 0; i < models.MaxColors; i++ {
		n := strconv.Itoa(i + 1)
		f.Colors[i] = ColorSlot{
			Name:  r.FormValue("color" + n + "_name"),
			Image: fileHeader(r, "image_color"+n),
		}
	}

	if errs := validate.Struct(f); validate.HasErrors(errs) {
		return nil, errs
	}
	return f, nil
}

func fileHeader(r *http.Request, field string) *multipart.FileHeader {
	if r.MultipartForm == nil {
		return nil
	}
	if fhs := r.MultipartForm.File[field]; len(fhs) > 0 {
		return fhs[0]
	}
	return nil
}
