// Package notify renders accepted submissions into mail notifications.
package notify

import (
	"context"
	"embed"
	"fmt"
	"html"
	"io/fs"
	"sync"
	"time"

	"github.com/okian/contactd/internal/domain/model"
	"github.com/osteele/liquid"
)

// Template names resolved against the composer's file system.
const (
	TextTemplate = "templates/contact.txt.liquid"
	HTMLTemplate = "templates/contact.html.liquid"
)

//go:embed templates/*.liquid
var embedded embed.FS

// Composer builds notifications from liquid templates. Parsed templates are
// cached; rendering is safe for concurrent use.
type Composer struct {
	engine     *liquid.Engine
	templates  fs.FS
	recipients []string
	cache      sync.Map // name -> *liquid.Template
}

// New creates a Composer using the embedded templates.
func New(opts ...Option) *Composer {
	engine := liquid.NewEngine()
	engine.RegisterFilter("escape", html.EscapeString)

	c := &Composer{
		engine:    engine,
		templates: embedded,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Subject returns the notification subject for s.
func Subject(s model.Submission) string {
	return fmt.Sprintf("Contact message from %s (%s)", s.Name, s.Email)
}

// Compose renders the text and HTML bodies for s. Template failures are
// returned as *RenderError and are never delivery failures.
func (c *Composer) Compose(_ context.Context, s model.Submission, identity string) (model.Notification, error) {
	bindings := liquid.Bindings{
		"id":          s.ID,
		"name":        s.Name,
		"email":       s.Email,
		"message":     s.Message,
		"identity":    identity,
		"received_at": s.ReceivedAt.UTC().Format(time.RFC3339),
	}

	text, err := c.render(TextTemplate, bindings)
	if err != nil {
		return model.Notification{}, err
	}
	body, err := c.render(HTMLTemplate, bindings)
	if err != nil {
		return model.Notification{}, err
	}

	return model.Notification{
		Subject:    Subject(s),
		TextBody:   text,
		HTMLBody:   body,
		Recipients: append([]string(nil), c.recipients...),
		ReplyTo:    s.Email,
	}, nil
}

func (c *Composer) render(name string, bindings liquid.Bindings) (string, error) {
	tpl, err := c.template(name)
	if err != nil {
		return "", &RenderError{Template: name, Err: err}
	}
	out, rerr := tpl.RenderString(bindings)
	if rerr != nil {
		return "", &RenderError{Template: name, Err: rerr}
	}
	return out, nil
}

func (c *Composer) template(name string) (*liquid.Template, error) {
	if cached, ok := c.cache.Load(name); ok {
		return cached.(*liquid.Template), nil
	}
	src, err := fs.ReadFile(c.templates, name)
	if err != nil {
		return nil, err
	}
	tpl, perr := c.engine.ParseString(string(src))
	if perr != nil {
		return nil, perr
	}
	c.cache.Store(name, tpl)
	return tpl, nil
}
