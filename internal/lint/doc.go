// Package lint validates markup documents and reports positioned findings.
//
// Validation runs in two tiers. Tier 1 is a generic well-formedness check
// over the whole document; when it fails, validation stops with exactly one
// error finding, since structural analysis of malformed input is unreliable.
// Tier 2 evaluates dialect rules line by line and only runs when tier 1
// passes:
//
//   - void-self-close: void elements (br, img, hr, ...) must be written
//     self-closing
//   - missing-alt: img and area elements must carry an alt attribute
//   - doctype-dialect: a generic <!doctype html> declaration should be the
//     XHTML declaration instead
//
// Known limitation: tier 2 rules scan physical lines independently, so a tag
// split across multiple lines is not checked.
//
// Validate never panics and never returns an error: every failure mode is
// represented as findings, down to a parser panic becoming a single error
// finding at the document start.
package lint
