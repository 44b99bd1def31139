package config

import (
	"strings"

	ferrors "git.home.luguber.info/inful/blogpress/internal/foundation/errors"
)

var validKinds = map[string]struct{}{"page": {}, "css": {}, "js": {}, "bin": {}}

// Validate checks that the configuration is internally consistent.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Content.Root) == "" {
		return ferrors.ValidationError("content.root must not be empty").Build()
	}
	if strings.TrimSpace(c.Export.Output) == "" {
		return ferrors.ValidationError("export.output must not be empty").Build()
	}
	if !strings.HasPrefix(c.Content.RoutePrefix, "/") {
		return ferrors.ValidationError("content.route_prefix must start with '/'").
			WithContext("route_prefix", c.Content.RoutePrefix).
			Build()
	}
	if NormalizeExportMode(string(c.Export.Mode)) == "" {
		return ferrors.ValidationError("invalid export.mode").
			WithContext("mode", string(c.Export.Mode)).
			WithContext("allowed", "auto, always, never").
			Build()
	}
	if NormalizeLinkCheckMode(string(c.Export.VerifyLinks)) == "" {
		return ferrors.ValidationError("invalid export.verify_links").
			WithContext("verify_links", string(c.Export.VerifyLinks)).
			WithContext("allowed", "off, warn, fail").
			Build()
	}
	if strings.ContainsAny(c.Export.DefaultDocument, `/\`) {
		return ferrors.ValidationError("export.default_document must be a bare file name").
			WithContext("default_document", c.Export.DefaultDocument).
			Build()
	}
	for i, r := range c.Export.Resources {
		if _, ok := validKinds[strings.ToLower(r.Kind)]; !ok {
			return ferrors.ValidationError("invalid resource kind").
				WithContext("index", i).
				WithContext("kind", r.Kind).
				Build()
		}
		if strings.TrimSpace(r.Route) == "" {
			return ferrors.ValidationError("resource route must not be empty").
				WithContext("index", i).
				Build()
		}
	}
	switch c.Server.Environment {
	case EnvironmentDevelopment, EnvironmentProduction, "staging":
	default:
		return ferrors.ValidationError("invalid server.environment").
			WithContext("environment", c.Server.Environment).
			Build()
	}
	return nil
}
