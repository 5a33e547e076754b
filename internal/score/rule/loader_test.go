package rule

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tripmatch/internal/catalog"
	"tripmatch/internal/score"
)

func TestResolveColumn(t *testing.T) {
	assert.Equal(t, catalog.ColumnTotalCost, ResolveColumn("budget"))
	assert.Equal(t, catalog.ColumnAccommodationType, ResolveColumn("hotel_name"))
	assert.Equal(t, catalog.ColumnAccommodationType, ResolveColumn("city_name"))
	assert.Equal(t, catalog.ColumnDuration, ResolveColumn("duration"))
	assert.Equal(t, "Traveler age", ResolveColumn("Traveler age"), "unknown tokens pass through")
}

func TestParse_YAML(t *testing.T) {
	script := `
rules:
  - type: cosine_similarity
  - type: threshold
    column: budget
    threshold: 5000
  - type: equality
    column: hotel_name
`
	configs, err := Parse([]byte(script))
	require.NoError(t, err)
	require.Len(t, configs, 3)

	assert.Equal(t, TypeCosineSimilarity, configs[0].Type)
	assert.Equal(t, "budget", configs[1].Column)
	require.NotNil(t, configs[1].Threshold)
	assert.Equal(t, 5000.0, *configs[1].Threshold)
	assert.Nil(t, configs[2].Threshold)
}

func TestParse_JSON(t *testing.T) {
	script := `{"rules": [
		{"type": "cosine_similarity"},
		{"type": "threshold", "column": "budget", "threshold": 1500.5}
	]}`

	configs, err := Parse([]byte(script))
	require.NoError(t, err)
	require.Len(t, configs, 2)
	assert.Equal(t, 1500.5, *configs[1].Threshold)
}

func TestParse_Invalid(t *testing.T) {
	_, err := Parse([]byte("rules: invalid yaml [[[[["))
	assert.Error(t, err)
}

func TestParse_InvalidStructure(t *testing.T) {
	_, err := Parse([]byte("rules: not a list"))
	assert.Error(t, err, "should fail to unmarshal into []Config")
}

func TestParse_Empty(t *testing.T) {
	configs, err := Parse([]byte(""))
	require.NoError(t, err)
	assert.Empty(t, configs)
}

func TestBuild_PreservesOrderAndTypes(t *testing.T) {
	c := testCatalog()
	configs := []Config{
		{Type: TypeEquality, Column: "hotel_name"},
		{Type: TypeCosineSimilarity},
		{Type: TypeThreshold, Column: "budget", Threshold: threshold(900)},
		{Type: TypeExpression, When: "month == query_month"},
	}

	rules, err := Build(configs, c, score.FitMinMax(c.Features()))
	require.NoError(t, err)
	require.Len(t, rules, 4)

	assert.IsType(t, &EqualityRule{}, rules[0])
	assert.IsType(t, &CosineSimilarityRule{}, rules[1])
	assert.IsType(t, &ThresholdRule{}, rules[2])
	assert.IsType(t, &ExpressionRule{}, rules[3])

	eq := rules[0].(*EqualityRule)
	assert.Equal(t, catalog.ColumnAccommodationType, eq.column)
	th := rules[2].(*ThresholdRule)
	assert.Equal(t, catalog.ColumnTotalCost, th.column)
}

func TestBuild_UnknownType(t *testing.T) {
	c := testCatalog()
	_, err := Build([]Config{{Type: "cosine_similarity"}, {Type: "fuzzy"}}, c, score.FitMinMax(c.Features()))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "fuzzy")
}

func TestBuild_MissingColumn(t *testing.T) {
	c := testCatalog()
	scaler := score.FitMinMax(c.Features())

	_, err := Build([]Config{{Type: TypeThreshold}}, c, scaler)
	assert.Error(t, err)

	_, err = Build([]Config{{Type: TypeEquality}}, c, scaler)
	assert.Error(t, err)
}

func TestBuild_InvalidExpression(t *testing.T) {
	c := testCatalog()
	_, err := Build([]Config{{Type: TypeExpression, When: "unknownField == 1"}}, c, score.FitMinMax(c.Features()))

	assert.Error(t, err, "expected error when rule uses undefined variable")
}

func TestBuild_UnmappedColumnIsNotAnError(t *testing.T) {
	c := testCatalog()
	rules, err := Build([]Config{{Type: TypeThreshold, Column: "Rating", Threshold: threshold(4)}}, c, score.FitMinMax(c.Features()))

	require.NoError(t, err)
	assert.Equal(t, score.Zeros(c.Len()), rules[0].Evaluate(testQuery(), c))
}

func TestLoadFromFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "rules.yaml")
	script := `
rules:
  - type: cosine_similarity
  - type: threshold
    column: budget
`
	require.NoError(t, os.WriteFile(file, []byte(script), 0o600))

	c := testCatalog()
	rules, err := LoadFromFile(file, c, score.FitMinMax(c.Features()))
	require.NoError(t, err)
	assert.Len(t, rules, 2)
}

func TestLoadFromFile_Missing(t *testing.T) {
	c := testCatalog()
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "absent.yaml"), c, score.FitMinMax(c.Features()))
	assert.Error(t, err)
}

func TestLoadFromFile_Sample(t *testing.T) {
	c, err := catalog.LoadFromFile(filepath.Join("..", "..", "..", "config", "travel.csv"))
	require.NoError(t, err)

	rules, err := LoadFromFile(filepath.Join("..", "..", "..", "config", "rules.yaml"), c, score.FitMinMax(c.Features()))
	require.NoError(t, err)
	require.Len(t, rules, 4)
	assert.Equal(t, TypeExpression, rules[3].Name())
}
