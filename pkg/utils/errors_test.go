package utils

import (
	"go/ast"
	"go/parser"
	"go/token"
	"io/fs"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAppError(t *testing.T) {
	err := NewAppError(ErrCodeExport, "Export failed", "pdf: font missing")
	assert.Equal(t, "EXPORT_FAILED: Export failed - pdf: font missing", err.Error())
	assert.Equal(t, "NOT_FOUND: missing", NewAppError(ErrCodeNotFound, "missing").Error())
}

// Every exported Err* sentinel under internal/ has a doc comment.
func TestSentinelErrorsAreDocumented(t *testing.T) {
	root := filepath.Join("..", "..", "internal")
	var undocumented []string

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() || !strings.HasSuffix(path, ".go") || strings.HasSuffix(path, "_test.go") {
			return err
		}
		file, err := parser.ParseFile(token.NewFileSet(), path, nil, parser.ParseComments)
		if err != nil {
			return err
		}
		for _, decl := range file.Decls {
			gen, ok := decl.(*ast.GenDecl)
			if !ok || gen.Tok != token.VAR {
				continue
			}
			for _, s := range gen.Specs {
				vs := s.(*ast.ValueSpec)
				doc := vs.Doc
				if doc == nil && len(gen.Specs) == 1 {
					doc = gen.Doc
				}
				for _, name := range vs.Names {
					if name.IsExported() && strings.HasPrefix(name.Name, "Err") && doc == nil {
						undocumented = append(undocumented, path+": "+name.Name)
					}
				}
			}
		}
		return nil
	})
	require.NoError(t, err)
	assert.Empty(t, undocumented)
}
