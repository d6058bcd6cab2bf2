package generator

import (
	"fmt"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/mod/modfile"
)

// GeneratedFileName is the file the step definitions are written to.
const GeneratedFileName = "steps_gen.go"

// DetectPackageName finds the Go package name for the directory the step
// file is emitted into. It reads the package clause from existing Go files
// and falls back to deriving a name from the module path or directory name.
func DetectPackageName(dir string) (string, error) {
	fset := token.NewFileSet()
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("cannot read directory %s: %w", dir, err)
	}

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".go") {
			continue
		}
		if name == GeneratedFileName {
			continue
		}

		f, parseErr := parser.ParseFile(fset, filepath.Join(dir, name), nil, parser.PackageClauseOnly)
		if parseErr != nil {
			continue
		}
		if f.Name != nil && f.Name.Name != "" {
			return f.Name.Name, nil
		}
	}

	return packageNameFromDir(dir)
}

// packageNameFromDir derives a valid package name from the directory path.
// At a module root the last segment of the module path is used, otherwise the
// directory name, sanitized into a valid Go identifier.
func packageNameFromDir(dir string) (string, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}

	goModPath := filepath.Join(absDir, "go.mod")
	if data, readErr := os.ReadFile(goModPath); readErr == nil {
		modFile, parseErr := modfile.Parse(goModPath, data, nil)
		if parseErr == nil && modFile.Module != nil {
			base := filepath.Base(modFile.Module.Mod.Path)
			if name := sanitizePackageName(base); name != "" {
				return name, nil
			}
		}
	}

	if name := sanitizePackageName(filepath.Base(absDir)); name != "" {
		return name, nil
	}

	return "", fmt.Errorf("cannot derive package name from directory %s", dir)
}

// sanitizePackageName turns a raw directory or module path segment into a
// valid Go package name. Hyphens and dots become underscores, other invalid
// characters are dropped, and a leading digit is prefixed with an underscore.
func sanitizePackageName(raw string) string {
	if raw == "" || raw == "." || raw == "/" {
		return ""
	}

	var b strings.Builder
	for i, r := range raw {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_':
			b.WriteRune(r)
		case r >= 'A' && r <= 'Z':
			b.WriteRune(r - 'A' + 'a')
		case r == '-' || r == '.':
			if i == 0 {
				continue
			}
			b.WriteRune('_')
		}
	}

	name := b.String()
	if name == "" {
		return ""
	}
	if name[0] >= '0' && name[0] <= '9' {
		name = "_" + name
	}
	return name
}

// DetectImportPath walks up from dir looking for go.mod and returns the full
// import path of dir within that module.
func DetectImportPath(dir string) (string, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}

	current := absDir
	for {
		goModPath := filepath.Join(current, "go.mod")
		data, readErr := os.ReadFile(goModPath)
		if readErr == nil {
			modFile, parseErr := modfile.Parse(goModPath, data, nil)
			if parseErr != nil {
				return "", fmt.Errorf("cannot parse go.mod: %w", parseErr)
			}

			rel, relErr := filepath.Rel(current, absDir)
			if relErr != nil {
				return "", relErr
			}

			modulePath := modFile.Module.Mod.Path
			if rel == "." {
				return modulePath, nil
			}
			return modulePath + "/" + filepath.ToSlash(rel), nil
		}

		parent := filepath.Dir(current)
		if parent == current {
			return "", fmt.Errorf("go.mod not found in any parent of %s", dir)
		}
		current = parent
	}
}

// Emit writes the generated step file into dir, using the directory's
// detected package name when one can be determined.
func Emit(dir string, output *Output) error {
	if name, err := DetectPackageName(dir); err == nil && name != "" {
		output.PackageName = name
	}

	file, err := os.Create(filepath.Join(dir, GeneratedFileName))
	if err != nil {
		return err
	}
	defer file.Close()

	return output.Generate(file)
}
