package blog

import (
	"path"
	"strings"
)

// DefaultRoutePrefix is the URL prefix under which posts are published.
const DefaultRoutePrefix = "/Blog"

// NormalizeRoute converts backslashes to '/', removes empty and "." segments
// and returns a route with a single leading '/' and no trailing '/'. The root route is "/".
func NormalizeRoute(route string) string {
	parts := strings.Split(strings.ReplaceAll(route, `\`, "/"), "/")
	kept := parts[:0]
	for _, p := range parts {
		if p == "" || p == "." {
			continue
		}
		kept = append(kept, p)
	}
	return "/" + strings.Join(kept, "/")
}

// DeriveRoute maps a post directory path to its route: the content root is stripped
// (both '\' and '/' count as separators) and the remaining directory name is placed
// under prefix verbatim, so a directory named like the prefix still gets its own segment.
//
// A dirPath that is already a route below prefix is returned normalized, which makes
// DeriveRoute(prefix, root, DeriveRoute(prefix, root, p)) equal DeriveRoute(prefix, root, p).
func DeriveRoute(prefix, root, dirPath string) string {
	pre := strings.Trim(NormalizeRoute(prefix), "/")
	p := cleanSlash(dirPath)
	r := strings.TrimRight(cleanSlash(root), "/")
	switch {
	case r != "" && strings.HasPrefix(p, r+"/"):
		p = p[len(r)+1:]
	case p == r:
		p = ""
	case isRouteBelow(p, pre):
		return NormalizeRoute(p)
	}
	return NormalizeRoute(pre + "/" + strings.Trim(p, "/"))
}

func isRouteBelow(p, prefix string) bool {
	if prefix == "" {
		return strings.HasPrefix(p, "/")
	}
	return p == "/"+prefix || strings.HasPrefix(p, "/"+prefix+"/")
}

func cleanSlash(p string) string {
	p = strings.ReplaceAll(p, `\`, "/")
	if p == "" {
		return ""
	}
	return path.Clean(p)
}
