package pipeline

import _ "embed"

// Fixed document template and base stylesheets. Compiled into the binary;
// if any of these fail to load the installation is broken.

//go:embed assets/template.html
var templateHTML []byte

//go:embed assets/markdown.css
var markdownCSS []byte

//go:embed assets/markdown-pdf.css
var markdownPdfCSS []byte
