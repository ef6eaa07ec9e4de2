package ginblog

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type signupForm struct {
	Email string `form:"email" binding:"required,email"`
	Name  string `form:"name" binding:"required,notblank,max=5"`
	Site  string `form:"site" binding:"omitempty,url"`
}

func formContext(body string) (*Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return NewContext(c), w
}

func TestContext_BindForm(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		errors FormErrors
	}{
		{
			name: "valid form",
			body: "email=ada%40example.com&name=Ada",
		},
		{
			name: "missing fields are reported by form name",
			body: "",
			errors: FormErrors{
				"email": "This field is required.",
				"name":  "This field is required.",
			},
		},
		{
			name: "whitespace is blank",
			body: "email=ada%40example.com&name=+%09+",
			errors: FormErrors{
				"name": "This field is required.",
			},
		},
		{
			name: "format errors",
			body: "email=nope&name=Adelaide&site=not-a-url",
			errors: FormErrors{
				"email": "Enter a valid email address.",
				"name":  "Use at most 5 characters.",
				"site":  "Enter a valid URL.",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, _ := formContext(tt.body)
			form := signupForm{}

			errs := ctx.BindForm(&form)
			assert.Equal(t, tt.errors, errs)
		})
	}
}

func TestContext_BindFormKeepsSubmittedValues(t *testing.T) {
	ctx, _ := formContext("email=nope&name=Ada")
	form := signupForm{}

	errs := ctx.BindForm(&form)
	require.Len(t, errs, 1)
	assert.Equal(t, "nope", form.Email)
	assert.Equal(t, "Ada", form.Name)
}

func TestContext_PathID(t *testing.T) {
	for value, want := range map[string]int64{"1": 1, "42": 42, "0": 0, "-3": 0, "abc": 0, "": 0} {
		ctx, _ := formContext("")
		ctx.Params = gin.Params{{Key: "id", Value: value}}

		id, err := ctx.PathID("id", "Post")
		if want == 0 {
			assert.True(t, errors.Is(err, ErrNotFound), value)
			assert.EqualError(t, err, "NOT_FOUND: Post not found", value)
			continue
		}
		assert.NoError(t, err, value)
		assert.Equal(t, want, id)
	}
}

func TestContext_Flash(t *testing.T) {
	ctx, w := formContext("")
	ctx.WithSecureCookies(true).Flash("Saved it!")

	cookie := w.Result().Cookies()[0]
	assert.Equal(t, FlashCookie, cookie.Name)
	assert.Equal(t, 60, cookie.MaxAge)
	assert.True(t, cookie.HttpOnly)
	assert.True(t, cookie.Secure)
}

func TestContext_TakeFlash(t *testing.T) {
	ctx, w := formContext("")
	ctx.Request.AddCookie(&http.Cookie{Name: FlashCookie, Value: "Saved%20it%21"})

	assert.Equal(t, "Saved it!", ctx.TakeFlash())

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, FlashCookie, cookies[0].Name)
	assert.Empty(t, cookies[0].Value)
	assert.Less(t, cookies[0].MaxAge, 0)
}

func TestContext_TakeFlashWithoutNotice(t *testing.T) {
	ctx, w := formContext("")

	assert.Empty(t, ctx.TakeFlash())
	assert.Empty(t, w.Result().Cookies())
}
