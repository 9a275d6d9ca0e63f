package fuzztests

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

const (
	maxSeedBytes = 64 << 10 // 64 KiB, ограничение для тестового корпуса
)

var directiveSeeds = []string{
	"",
	"\n",
	"plain text\nwithout directives",
	"a first statement;\n#line 4 \"included_file\"\nfoo\nthe last one\n#line 2 \"top_file\"\n",
	"#line 1\n",
	"#line 0 \"zero\"\n",
	"#line 99999999999999999999999\n",
	"   #line   7   \"spaced\"   \n",
	"#line 3 \"unterminated\n",
	"#line 3 \"a\" trailing\n",
	"#line 5 \"\"\n",
	"x\n#line 9 \"f\"",
	"\t#line 2 \"tab\"\r\n",
	"#line 1 \"a\"\n#line 1 \"b\"\n#line 1\n",
}

func addCorpusSeeds(f *testing.F) {
	addTestdataSeeds(f)
	for _, s := range directiveSeeds {
		f.Add([]byte(s))
	}
}

func addTestdataSeeds(f *testing.F) {
	root := filepath.Join("..", "..", "testdata")
	if _, err := os.Stat(root); err != nil {
		return
	}
	// проходим по дереву testdata, добавляем все *.i файлы
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil || d.IsDir() || filepath.Ext(path) != ".i" {
			return nil
		}
		// #nosec G304 -- path comes from repository testdata walk
		src, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		f.Add(clampSeed(src))
		return nil
	})
	if err != nil {
		return
	}
}

func clampSeed(src []byte) []byte {
	if len(src) <= maxSeedBytes {
		return append([]byte(nil), src...)
	}
	return append([]byte(nil), src[:maxSeedBytes]...)
}
