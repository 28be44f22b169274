package service

import (
	"fmt"
	"strings"
	"text/template"
)

// SnippetLanguage selects the flavour of a code snippet.
type SnippetLanguage string

const (
	SnippetCurl   SnippetLanguage = "curl"
	SnippetPython SnippetLanguage = "python"
	SnippetJS     SnippetLanguage = "js"
)

// SnippetLanguages lists the supported languages in display order.
var SnippetLanguages = []SnippetLanguage{SnippetCurl, SnippetPython, SnippetJS}

// SnippetInput is the prompt a snippet reproduces.
type SnippetInput struct {
	Text     string
	Provider string
	Model    string
}

var snippetFuncs = template.FuncMap{
	"quoted": escapeDoubleQuoted,
}

var snippetTemplates = map[SnippetLanguage]*template.Template{
	SnippetCurl: template.Must(template.New("curl").Funcs(snippetFuncs).Parse(`curl -X POST "{{.URL}}" \
  -H "Content-Type: application/json" \
  -d '{
    "text": "{{quoted .Text}}",
    "provider": "{{.Provider}}",
    "model": "{{.Model}}"
  }'`)),
	SnippetPython: template.Must(template.New("python").Funcs(snippetFuncs).Parse(`import requests

url = "{{.URL}}"
payload = {
    "text": """{{.Text}}""",
    "provider": "{{.Provider}}",
    "model": "{{.Model}}"
}

response = requests.post(url, json=payload)
print(response.json())`)),
	SnippetJS: template.Must(template.New("js").Funcs(snippetFuncs).Parse(`const response = await fetch("{{.URL}}", {
  method: "POST",
  headers: {
    "Content-Type": "application/json",
  },
  body: JSON.stringify({
    text: "{{quoted .Text}}",
    provider: "{{.Provider}}",
    model: "{{.Model}}",
  }),
});

const data = await response.json();
console.log(data);`)),
}

type clientSnippetService struct {
	executeURL string
}

// NewClientSnippetService renders snippets that call the execute endpoint
// under apiBaseURL.
func NewClientSnippetService(apiBaseURL string) ClientSnippetService {
	return &clientSnippetService{
		executeURL: strings.TrimRight(apiBaseURL, "/") + "/api/v1/execute",
	}
}

func (s *clientSnippetService) Snippet(lang SnippetLanguage, in SnippetInput) (string, error) {
	tmpl, ok := snippetTemplates[lang]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownSnippetLanguage, lang)
	}

	data := struct {
		SnippetInput
		URL string
	}{SnippetInput: in, URL: s.executeURL}

	var b strings.Builder
	if err := tmpl.Execute(&b, data); err != nil {
		return "", fmt.Errorf("render %s snippet: %w", lang, err)
	}
	return b.String(), nil
}

func escapeDoubleQuoted(s string) string {
	s = strings.ReplaceAll(s, `"`, `\"`)
	return strings.ReplaceAll(s, "\n", `\n`)
}
