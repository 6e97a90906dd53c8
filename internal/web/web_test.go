package web

import (
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIndexHTMLReferencesAssets(t *testing.T) {
	page := string(IndexHTML())

	assert.Contains(t, page, `<title>Todo App</title>`)
	assert.Contains(t, page, `id="todoInput"`)
	assert.Contains(t, page, `src="/static/app.js"`)
	assert.Contains(t, page, `href="/static/app.css"`)
	assert.NotContains(t, page, "onclick", "inline handlers would be blocked by the CSP")
}

func TestAssetsServeScriptAndStyles(t *testing.T) {
	assets := Assets()
	for _, name := range []string{"index.html", "app.js", "app.css"} {
		_, err := fs.Stat(assets, name)
		require.NoError(t, err, name)
	}

	js, err := fs.ReadFile(assets, "app.js")
	require.NoError(t, err)
	assert.Contains(t, string(js), "'/todos'")
	assert.Contains(t, string(js), "textContent")
}

func TestScriptSeparatesTextFromDate(t *testing.T) {
	js, err := fs.ReadFile(Assets(), "app.js")
	require.NoError(t, err)
	assert.Contains(t, string(js), "label.appendChild(document.createTextNode(' '));\n        label.appendChild(date);")
}
