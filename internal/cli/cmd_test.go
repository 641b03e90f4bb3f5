package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/JonMunkholm/residuos/internal/core"
)

const sampleCSV = `"Tipo de unidade, segundo o município informante",UF,Dom+Pub,Entulho,Podas,Saúde,Outros` + "\n" +
	"Aterro,SP,10,2,1,0.5,0.5\n" +
	"Aterro,RJ,4,1,0,0,1\n" +
	"Triagem,SP,3,0,0,0,1\n" +
	"Triagem,XX,1,0,0,0,0\n"

// writeSample writes sampleCSV to a temp dir and returns its path.
func writeSample(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fluxo.csv")
	require.NoError(t, os.WriteFile(path, []byte(sampleCSV), 0o644))
	return path
}

// execCmd runs the root command with args and returns stdout.
func execCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd(&App{})
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err := root.Execute()
	return buf.String(), err
}

func TestOptionsCmd(t *testing.T) {
	path := writeSample(t)

	out, err := execCmd(t, "options", "--file", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Registros: 4")
	assert.Contains(t, out, "  Aterro\n")
	assert.Contains(t, out, "  Triagem\n")
	assert.Contains(t, out, "  XX\n")

	out, err = execCmd(t, "options", "-f", path, "--json")
	require.NoError(t, err)
	var opts core.Options
	require.NoError(t, json.Unmarshal([]byte(out), &opts))
	assert.Equal(t, []string{"SP", "RJ", "XX"}, opts.Regions)
}

func TestOptionsCmd_StrictRegions(t *testing.T) {
	_, err := execCmd(t, "options", "--strict-regions", "--file", writeSample(t))
	require.Error(t, err)
	assert.True(t, core.IsParseError(err))
	assert.Contains(t, err.Error(), "unknown region")
}

func TestSummarizeCmd(t *testing.T) {
	path := writeSample(t)

	t.Run("defaults to every value grouped by region", func(t *testing.T) {
		out, err := execCmd(t, "summarize", "--file", path)
		require.NoError(t, err)
		assert.Contains(t, out, "Grupos: 3")
		assert.Contains(t, out, "Total de Resíduos (ton): 25.00")
		assert.Contains(t, out, "Tipo de Resíduo Predominante: Dom+Pub")
		assert.Contains(t, out, "18.00")
	})

	t.Run("selection and two fields", func(t *testing.T) {
		out, err := execCmd(t, "summarize", "-f", path,
			"--facility-type", "Aterro", "--region", "SP,RJ",
			"--group-by", "facility_type,region")
		require.NoError(t, err)
		assert.Contains(t, out, "Grupos: 2")
		assert.Contains(t, out, "Total de Resíduos (ton): 20.00")
		assert.Contains(t, out, "Tipo de unidade, segundo o município informante")
	})

	t.Run("no match", func(t *testing.T) {
		out, err := execCmd(t, "summarize", "-f", path, "--facility-type", "Lixão")
		require.NoError(t, err)
		assert.Contains(t, out, "Grupos: 0")
		assert.Contains(t, out, "Total de Resíduos (ton): 0.00")
		assert.NotContains(t, out, "Predominante")
	})

	t.Run("invalid group by", func(t *testing.T) {
		_, err := execCmd(t, "summarize", "-f", path, "--group-by", "total")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cannot group by")

		_, err = execCmd(t, "summarize", "-f", path, "--group-by", "region,UF")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "duplicate")
	})

	t.Run("missing file flag", func(t *testing.T) {
		_, err := execCmd(t, "summarize")
		require.Error(t, err)
	})
}

func TestExportCmd(t *testing.T) {
	path := writeSample(t)
	outPath := filepath.Join(t.TempDir(), "resumo.xlsx")

	out, err := execCmd(t, "export", "-f", path, "--region", "SP", "--out", outPath)
	require.NoError(t, err)
	assert.Contains(t, out, "(2 linhas)")

	f, err := excelize.OpenFile(outPath)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(core.ExportSheetName)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, core.ExportHeader(), rows[0])
	assert.Equal(t, []string{"Aterro", "SP"}, rows[1][:2])
	assert.Equal(t, []string{"Triagem", "SP"}, rows[2][:2])
}

func TestExportCmd_BadInput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dados.txt")
	require.NoError(t, os.WriteFile(path, []byte(sampleCSV), 0o644))

	_, err := execCmd(t, "export", "-f", path, "--out", filepath.Join(t.TempDir(), "x.xlsx"))
	require.Error(t, err)
	assert.Equal(t, "FILE006", core.MapError(err).Code)
}
