// Package frontmatter splits YAML front matter from Markdown documents.
//
// Front matter is delimited by lines containing only "---" at the start of
// the file and after the header. The header is decoded with yaml.v3 and the
// remaining content is returned as the body. LF and CRLF line endings are
// both accepted.
//
//	var matter map[string]any
//	body, err := frontmatter.MustParse(r, &matter)
//	if errors.Is(err, frontmatter.ErrMissingFrontmatter) {
//		// plain Markdown
//	}
package frontmatter
