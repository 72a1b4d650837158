package cli

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/mchmarny/planscore/pkg/data"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImportCmd_File(t *testing.T) {
	a := newTestApp(t)
	out, err := a.run(t, "", "import", "--file", testBundle)
	require.NoError(t, err)

	var res data.ImportResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, 4, res.Units)
	assert.Equal(t, 2, res.Elections)
	assert.Equal(t, []string{"CD", "COUNTY"}, res.Plans)
}

func TestImportCmd_URL(t *testing.T) {
	b, err := os.ReadFile(testBundle)
	require.NoError(t, err)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write(b) //nolint:errcheck
	}))
	defer srv.Close()

	a := newTestApp(t)
	out, err := a.run(t, "", "import", "--url", srv.URL+"/bundles/bundle.yaml")
	require.NoError(t, err)
	assert.Contains(t, out, `"units": 4`)
}

func TestImportCmd_JSONURL(t *testing.T) {
	b, err := data.ReadBundleFile(testBundle)
	require.NoError(t, err)
	body, err := json.Marshal(b)
	require.NoError(t, err)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write(body) //nolint:errcheck
	}))
	defer srv.Close()

	a := newTestApp(t)
	out, err := a.run(t, "", "import", "--url", srv.URL+"/bundle.json")
	require.NoError(t, err)

	var res data.ImportResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, 4, res.Units)
	assert.Equal(t, []string{"CD", "COUNTY"}, res.Plans)
}

func TestImportCmd_Errors(t *testing.T) {
	a := newTestApp(t)
	_, err := a.run(t, "", "import")
	assert.Error(t, err, "no source")

	_, err = a.run(t, "", "import", "--file", testBundle, "--url", "http://localhost/b.yaml")
	assert.Error(t, err, "two sources")

	_, err = a.run(t, "", "import", "--url", "http://localhost/bundle.txt")
	assert.Error(t, err, "unsupported extension")

	_, err = a.run(t, "", "import", "--file", "testdata/missing.yaml")
	assert.Error(t, err)
}

func TestPlansCmd(t *testing.T) {
	a := newTestApp(t)
	a.mustImport(t)

	out, err := a.run(t, "", "plans")
	require.NoError(t, err)

	var res plansResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	require.Len(t, res.Plans, 2)
	assert.Equal(t, "CD", res.Plans[0].Name)
	assert.Equal(t, 2, res.Plans[0].Districts)
	require.Len(t, res.Elections, 2)
	assert.Equal(t, int64(4), res.State["units"])
}
