// Package blog discovers blog posts on disk and loads them for rendering.
//
// Every immediate sub-directory of the content root is one post. Its route is
// the configured prefix (default /Blog) followed by the directory name, with
// both '\' and '/' accepted as separators in the scanned paths.
package blog
