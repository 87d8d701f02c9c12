package dataset

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"normatlas/internal/adapters/config"
	"normatlas/pkg/errors"
	"normatlas/pkg/logger"
)

const validNeedCSV = `ilçe,branş,ihtiyac
Kepez,Matematik,5
Muratpaşa,Fizik,3
Kepez,Matematik,2
`

const validSurplusCSV = `İlçe Adı,Branşı,Açıklamalar
Muratpaşa,Matematik,Sağlık durumu
Aksu,Kimya,
Muratpaşa,Matematik,
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_CSV(t *testing.T) {
	cfg := config.DatasetConfig{
		NeedPath:    writeFile(t, "need.csv", validNeedCSV),
		SurplusPath: writeFile(t, "surplus.csv", validSurplusCSV),
	}

	tables, err := Load(cfg, logger.Get())
	require.NoError(t, err)

	require.Len(t, tables.Needs(), 3)
	require.Len(t, tables.Surpluses(), 3)

	assert.Equal(t, "Kepez", tables.Needs()[0].District)
	assert.Equal(t, 5, tables.Needs()[0].Need)

	t.Run("justification presence drives the split", func(t *testing.T) {
		assert.True(t, tables.Surpluses()[0].Justified())
		assert.False(t, tables.Surpluses()[1].Justified(), "empty cell means unjustified")
	})
}

func TestLoad_TrimsWhitespace(t *testing.T) {
	needCSV := "ilçe,branş,ihtiyac\n  Kepez  ,  Matematik ,5\n"
	surplusCSV := "İlçe Adı,Branşı,Açıklamalar\n Kepez ,Matematik,  \n"

	cfg := config.DatasetConfig{
		NeedPath:    writeFile(t, "need.csv", needCSV),
		SurplusPath: writeFile(t, "surplus.csv", surplusCSV),
	}

	tables, err := Load(cfg, logger.Get())
	require.NoError(t, err)

	assert.Equal(t, "Kepez", tables.Needs()[0].District)
	assert.Equal(t, "Matematik", tables.Needs()[0].Branch)
	// Whitespace-only justification counts as absent.
	assert.False(t, tables.Surpluses()[0].Justified())
}

func TestLoad_NeedValueCoercion(t *testing.T) {
	t.Run("float-rendered integers are accepted", func(t *testing.T) {
		needCSV := "ilçe,branş,ihtiyac\nKepez,Matematik,5.0\n"
		cfg := config.DatasetConfig{
			NeedPath:    writeFile(t, "need.csv", needCSV),
			SurplusPath: writeFile(t, "surplus.csv", validSurplusCSV),
		}

		tables, err := Load(cfg, logger.Get())
		require.NoError(t, err)
		assert.Equal(t, 5, tables.Needs()[0].Need)
	})

	t.Run("empty need cell counts as zero", func(t *testing.T) {
		needCSV := "ilçe,branş,ihtiyac\nKepez,Matematik,\n"
		cfg := config.DatasetConfig{
			NeedPath:    writeFile(t, "need.csv", needCSV),
			SurplusPath: writeFile(t, "surplus.csv", validSurplusCSV),
		}

		tables, err := Load(cfg, logger.Get())
		require.NoError(t, err)
		assert.Equal(t, 0, tables.Needs()[0].Need)
	})

	t.Run("non-numeric need is a schema violation", func(t *testing.T) {
		needCSV := "ilçe,branş,ihtiyac\nKepez,Matematik,çok\n"
		cfg := config.DatasetConfig{
			NeedPath:    writeFile(t, "need.csv", needCSV),
			SurplusPath: writeFile(t, "surplus.csv", validSurplusCSV),
		}

		_, err := Load(cfg, logger.Get())
		require.Error(t, err)
		assert.True(t, errors.Is(err, errors.ErrSchema))
	})
}

func TestLoad_SchemaValidation(t *testing.T) {
	t.Run("missing need column fails fast", func(t *testing.T) {
		needCSV := "ilçe,branş\nKepez,Matematik\n"
		cfg := config.DatasetConfig{
			NeedPath:    writeFile(t, "need.csv", needCSV),
			SurplusPath: writeFile(t, "surplus.csv", validSurplusCSV),
		}

		_, err := Load(cfg, logger.Get())
		require.Error(t, err)
		assert.True(t, errors.Is(err, errors.ErrSchema))
		assert.Contains(t, err.Error(), "ihtiyac")
	})

	t.Run("missing surplus column fails fast", func(t *testing.T) {
		surplusCSV := "İlçe Adı,Branşı\nKepez,Matematik\n"
		cfg := config.DatasetConfig{
			NeedPath:    writeFile(t, "need.csv", validNeedCSV),
			SurplusPath: writeFile(t, "surplus.csv", surplusCSV),
		}

		_, err := Load(cfg, logger.Get())
		require.Error(t, err)
		assert.True(t, errors.Is(err, errors.ErrSchema))
		assert.Contains(t, err.Error(), "Açıklamalar")
	})

	t.Run("header cells are trimmed before matching", func(t *testing.T) {
		needCSV := " ilçe , branş , ihtiyac \nKepez,Matematik,5\n"
		cfg := config.DatasetConfig{
			NeedPath:    writeFile(t, "need.csv", needCSV),
			SurplusPath: writeFile(t, "surplus.csv", validSurplusCSV),
		}

		_, err := Load(cfg, logger.Get())
		assert.NoError(t, err)
	})
}

func TestLoad_UnreadableSources(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		cfg := config.DatasetConfig{
			NeedPath:    filepath.Join(t.TempDir(), "missing.csv"),
			SurplusPath: writeFile(t, "surplus.csv", validSurplusCSV),
		}

		_, err := Load(cfg, logger.Get())
		require.Error(t, err)
		assert.True(t, errors.Is(err, errors.ErrDatasetUnreadable))
	})

	t.Run("unsupported extension", func(t *testing.T) {
		cfg := config.DatasetConfig{
			NeedPath:    writeFile(t, "need.json", `{}`),
			SurplusPath: writeFile(t, "surplus.csv", validSurplusCSV),
		}

		_, err := Load(cfg, logger.Get())
		require.Error(t, err)
		assert.True(t, errors.Is(err, errors.ErrDatasetUnreadable))
	})

	t.Run("xlsx path with non-xlsx content", func(t *testing.T) {
		cfg := config.DatasetConfig{
			NeedPath:    writeFile(t, "need.xlsx", "not a zip archive"),
			SurplusPath: writeFile(t, "surplus.csv", validSurplusCSV),
		}

		_, err := Load(cfg, logger.Get())
		require.Error(t, err)
		assert.True(t, errors.Is(err, errors.ErrDatasetUnreadable))
	})
}
