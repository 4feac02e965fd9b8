package queryparse

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type params struct {
	URL       string   `form:"url"`
	Types     []string `form:"types"`
	Limit     int      `form:"limit"`
	Dedupe    bool     `form:"dedupe"`
	Skipped   string   `form:"-"`
	Untagged  string
	OptionalN *int `form:"optional_n"`
}

func bindVia(t *testing.T, target string) (params, error) {
	t.Helper()
	var got params
	var bindErr error

	app := fiber.New()
	app.Get("/q", func(c *fiber.Ctx) error {
		bindErr = Bind(c, &got)
		return nil
	})
	_, err := app.Test(httptest.NewRequest(http.MethodGet, target, nil))
	require.NoError(t, err)
	return got, bindErr
}

func TestBind(t *testing.T) {
	got, err := bindVia(t, "/q?url=https://a.com&types=internal,%20external,&limit=5&dedupe=true&optional_n=7")
	require.NoError(t, err)

	assert.Equal(t, "https://a.com", got.URL)
	assert.Equal(t, []string{"internal", "external"}, got.Types)
	assert.Equal(t, 5, got.Limit)
	assert.True(t, got.Dedupe)
	require.NotNil(t, got.OptionalN)
	assert.Equal(t, 7, *got.OptionalN)
}

func TestBindMissingParamsLeaveZeroValues(t *testing.T) {
	got, err := bindVia(t, "/q")
	require.NoError(t, err)
	assert.Empty(t, got.URL)
	assert.Nil(t, got.Types)
	assert.Zero(t, got.Limit)
	assert.False(t, got.Dedupe)
	assert.Nil(t, got.OptionalN)
}

func TestBindBadValues(t *testing.T) {
	_, err := bindVia(t, "/q?limit=many")
	assert.Error(t, err)

	_, err = bindVia(t, "/q?dedupe=perhaps")
	assert.Error(t, err)
}

func TestBindRequiresStructPointer(t *testing.T) {
	app := fiber.New()
	var bindErr error
	app.Get("/q", func(c *fiber.Ctx) error {
		var s string
		bindErr = Bind(c, &s)
		return nil
	})
	_, err := app.Test(httptest.NewRequest(http.MethodGet, "/q", nil))
	require.NoError(t, err)
	assert.Error(t, bindErr)
}
