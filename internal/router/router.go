// Package router maps application paths to views.
package router

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// Route names.
const (
	Home           = "Home"
	QuestionDetail = "QuestionDetail"
	EditQuestion   = "EditQuestion"
	AddQuestion    = "AddQuestion"
)

// Route maps a path pattern to a view name. Segments starting with ':'
// capture a parameter.
type Route struct {
	Path string
	Name string
}

// Routes is the static route table.
var Routes = []Route{
	{Path: "/", Name: Home},
	{Path: "/question/:id", Name: QuestionDetail},
	{Path: "/question/:id/edit", Name: EditQuestion},
	{Path: "/add", Name: AddQuestion},
}

// Match is a resolved route.
type Match struct {
	Route  Route
	Params map[string]string
}

// View renders one screen.
type View interface {
	Render(ctx context.Context, params map[string]string) error
}

// ViewFunc adapts a function to View.
type ViewFunc func(ctx context.Context, params map[string]string) error

func (f ViewFunc) Render(ctx context.Context, params map[string]string) error {
	return f(ctx, params)
}

// Loader builds a view on first navigation.
type Loader func() View

// Resolve matches path against Routes. A query string or trailing slash is ignored.
func Resolve(path string) (Match, bool) {
	segs := split(path)
	for _, r := range Routes {
		if params, ok := match(split(r.Path), segs); ok {
			return Match{Route: r, Params: params}, true
		}
	}
	return Match{}, false
}

// Href builds the path of the named route.
func Href(name string, params map[string]string) (string, error) {
	for _, r := range Routes {
		if r.Name != name {
			continue
		}
		segs := split(r.Path)
		for i, s := range segs {
			if !strings.HasPrefix(s, ":") {
				continue
			}
			v, ok := params[s[1:]]
			if !ok || v == "" {
				return "", fmt.Errorf("route %s: missing param %q", name, s[1:])
			}
			segs[i] = v
		}
		return "/" + strings.Join(segs, "/"), nil
	}
	return "", fmt.Errorf("unknown route %q", name)
}

// Router resolves paths and renders views, loading each view once.
type Router struct {
	mu      sync.Mutex
	loaders map[string]Loader
	views   map[string]View
}

// New creates a router with no views registered.
func New() *Router {
	return &Router{
		loaders: make(map[string]Loader),
		views:   make(map[string]View),
	}
}

// Register sets the loader for a route name.
func (r *Router) Register(name string, load Loader) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.loaders[name] = load
	delete(r.views, name)
}

// Navigate resolves path and renders the matching view.
func (r *Router) Navigate(ctx context.Context, path string) error {
	m, ok := Resolve(path)
	if !ok {
		return fmt.Errorf("no route for %q", path)
	}
	v, err := r.view(m.Route.Name)
	if err != nil {
		return err
	}
	return v.Render(ctx, m.Params)
}

func (r *Router) view(name string) (View, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if v, ok := r.views[name]; ok {
		return v, nil
	}
	load, ok := r.loaders[name]
	if !ok {
		return nil, fmt.Errorf("no view registered for route %s", name)
	}
	v := load()
	r.views[name] = v
	return v, nil
}

func split(path string) []string {
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	path = strings.Trim(path, "/")
	if path == "" {
		return nil
	}
	return strings.Split(path, "/")
}

func match(pattern, segs []string) (map[string]string, bool) {
	if len(pattern) != len(segs) {
		return nil, false
	}
	params := map[string]string{}
	for i, p := range pattern {
		if strings.HasPrefix(p, ":") {
			if segs[i] == "" {
				return nil, false
			}
			params[p[1:]] = segs[i]
			continue
		}
		if p != segs[i] {
			return nil, false
		}
	}
	return params, true
}
