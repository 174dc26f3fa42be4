package notify

import "io/fs"

// Option configures a Composer.
type Option func(*Composer)

// WithRecipients sets the fixed recipient list.
func WithRecipients(recipients ...string) Option {
	return func(c *Composer) {
		c.recipients = append([]string(nil), recipients...)
	}
}

// WithTemplates replaces the embedded template file system.
func WithTemplates(fsys fs.FS) Option {
	return func(c *Composer) {
		if fsys != nil {
			c.templates = fsys
		}
	}
}
