package ginblog

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

const (
	// ActorKey is the gin context key the session middleware stores the
	// current actor under.
	ActorKey    = "actor"
	FlashCookie = "flash"
)

func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			return strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		})
		// required accepts whitespace-only strings; notblank does not
		if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
			panic(err)
		}
	}
}

type Context struct {
	*gin.Context
	secureCookies bool
}

func NewContext(c *gin.Context) *Context {
	return &Context{Context: c}
}

func (c *Context) WithSecureCookies(secure bool) *Context {
	c.secureCookies = secure
	return c
}

// Flash stores a one-shot notice shown on the next rendered page.
func (c *Context) Flash(message string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(FlashCookie, message, 60, "/", "", c.secureCookies, true)
}

// TakeFlash returns the pending notice, if any, and clears it.
func (c *Context) TakeFlash() string {
	message, err := c.Cookie(FlashCookie)
	if err != nil || message == "" {
		return ""
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(FlashCookie, "", -1, "/", "", c.secureCookies, true)
	return message
}

// PathID parses a numeric path parameter naming a resource. Anything that is
// not an id cannot name an existing row, so it is reported as not found.
func (c *Context) PathID(name, resource string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id < 1 {
		return 0, ErrNotFound.New(resource)
	}
	return id, nil
}

// BindForm binds a submitted form and translates validation failures into
// per-field messages.
func (c *Context) BindForm(form interface{}) FormErrors {
	err := c.ShouldBindWith(form, binding.Form)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return FormErrors{"form": "The form could not be read, please try again."}
	}

	formErrors := FormErrors{}
	for _, fe := range verrs {
		formErrors[fe.Field()] = validationMessage(fe)
	}
	return formErrors
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "notblank":
		return "This field is required."
	case "email":
		return "Enter a valid email address."
	case "url":
		return "Enter a valid URL."
	case "max":
		return fmt.Sprintf("Use at most %s characters.", fe.Param())
	case "min":
		return fmt.Sprintf("Use at least %s characters.", fe.Param())
	default:
		return "Invalid value."
	}
}
