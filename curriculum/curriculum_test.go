package curriculum

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const yamlDoc = `
cycles:
  - name: college
    themes:
      - name: fractions
        description: Working with fractions
        levels:
          - id: "1"
            name: Discovery
            objectives: ["add fractions with same denominator"]
            example_exercises: ["1/4 + 2/4 = ?"]
          - id: "2"
            name: Consolidation
            objectives: ["add fractions with different denominators"]
            example_exercises: ["1/3 + 1/4 = ?"]
      - name: equations
        description: Linear equations
        levels:
          - id: "1"
            name: Discovery
            objectives: ["solve x + a = b"]
            example_exercises: ["x + 3 = 7"]
  - name: lycee
    themes:
      - name: functions
        description: Function analysis
        levels:
          - id: "1"
            name: Discovery
            objectives: ["evaluate f(x)"]
            example_exercises: ["f(x) = 2x + 1, f(3) = ?"]
`

const jsonDoc = `{
  "cycles": [
    {
      "name": "college",
      "themes": [
        {
          "name": "fractions",
          "description": "Working with fractions",
          "levels": [
            {"id": "1", "name": "Discovery", "objectives": ["a"], "example_exercises": ["b"]}
          ]
        }
      ]
    }
  ]
}`

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadFile_YAML_OrderPreserved(t *testing.T) {
	cur, err := LoadFile(writeTemp(t, "curriculum.yaml", yamlDoc))
	require.NoError(t, err)

	assert.Equal(t, 4, cur.Len())
	assert.Equal(t, []string{
		"college::fractions::1",
		"college::fractions::2",
		"college::equations::1",
		"lycee::functions::1",
	}, cur.IDs())

	obj, ok := cur.Get("college::fractions::2")
	require.True(t, ok)
	assert.Equal(t, "Consolidation", obj.LevelName)
	assert.Equal(t, "Working with fractions", obj.Description)
	assert.Equal(t, []string{"1/3 + 1/4 = ?"}, obj.ExampleExercises)
}

func TestLoadFile_JSON(t *testing.T) {
	cur, err := LoadFile(writeTemp(t, "curriculum.json", jsonDoc))
	require.NoError(t, err)
	assert.Equal(t, 1, cur.Len())

	first, ok := cur.First()
	require.True(t, ok)
	assert.Equal(t, "college::fractions::1", first.ID)
}

func TestLoadFile_UnsupportedExtension(t *testing.T) {
	_, err := LoadFile(writeTemp(t, "curriculum.txt", yamlDoc))
	require.Error(t, err)
	var le *LoadError
	require.ErrorAs(t, err, &le)
	assert.Contains(t, le.Reason, "unsupported format")
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestFlatten_Validation(t *testing.T) {
	_, err := Flatten(Document{})
	assert.Error(t, err)

	_, err = Flatten(Document{Cycles: []Cycle{{Name: "c"}}})
	assert.Error(t, err, "cycles without objectives are rejected")

	_, err = Flatten(Document{Cycles: []Cycle{{
		Name:   "c",
		Themes: []Theme{{Name: "t", Levels: []Level{{ID: ""}}}},
	}}})
	assert.Error(t, err, "empty level id is rejected")
}

func TestNext_Ordering(t *testing.T) {
	cur, err := LoadFile(writeTemp(t, "curriculum.yml", yamlDoc))
	require.NoError(t, err)

	next, ok, err := cur.Next("college::fractions::2")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "college::equations::1", next.ID, "ordering crosses theme boundaries")

	_, ok, err = cur.Next("lycee::functions::1")
	require.NoError(t, err)
	assert.False(t, ok, "last objective has no successor")
}
