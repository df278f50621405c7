package router

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		path   string
		name   string
		params map[string]string
	}{
		{"/", Home, map[string]string{}},
		{"", Home, map[string]string{}},
		{"/question/12", QuestionDetail, map[string]string{"id": "12"}},
		{"/question/12/", QuestionDetail, map[string]string{"id": "12"}},
		{"/question/1772352000000/edit", EditQuestion, map[string]string{"id": "1772352000000"}},
		{"/add?from=home", AddQuestion, map[string]string{}},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			m, ok := Resolve(tt.path)
			require.True(t, ok)
			assert.Equal(t, tt.name, m.Route.Name)
			assert.Equal(t, tt.params, m.Params)
		})
	}
}

func TestResolve_NoMatch(t *testing.T) {
	for _, p := range []string{"/question", "/question/1/delete", "/edit", "/add/1"} {
		_, ok := Resolve(p)
		assert.False(t, ok, p)
	}
}

func TestHref(t *testing.T) {
	got, err := Href(EditQuestion, map[string]string{"id": "7"})
	require.NoError(t, err)
	assert.Equal(t, "/question/7/edit", got)

	got, err = Href(Home, nil)
	require.NoError(t, err)
	assert.Equal(t, "/", got)

	_, err = Href(QuestionDetail, nil)
	assert.Error(t, err)

	_, err = Href("Nope", nil)
	assert.Error(t, err)
}

func TestRouter_LoadsViewsLazilyOnce(t *testing.T) {
	r := New()
	loads := 0
	var seen []string
	r.Register(QuestionDetail, func() View {
		loads++
		return ViewFunc(func(ctx context.Context, params map[string]string) error {
			seen = append(seen, params["id"])
			return nil
		})
	})
	assert.Zero(t, loads)

	require.NoError(t, r.Navigate(context.Background(), "/question/1"))
	require.NoError(t, r.Navigate(context.Background(), "/question/2"))

	assert.Equal(t, 1, loads)
	assert.Equal(t, []string{"1", "2"}, seen)
}

func TestRouter_Errors(t *testing.T) {
	r := New()
	assert.ErrorContains(t, r.Navigate(context.Background(), "/missing"), "no route")
	assert.ErrorContains(t, r.Navigate(context.Background(), "/add"), "no view registered")
}
