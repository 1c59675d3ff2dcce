package tree

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"listpipe/internal/record"
)

func TestBuildForest(t *testing.T) {
	records := record.Set{
		{"name": "catalog/vpc"},
		{"name": "mixins/region/us-east-2", "import": "catalog/vpc"},
		{"name": "orgs/plat/dev", "import": "mixins/region/us-east-2"},
		{"name": "catalog/eks"},
		{"name": "orgs/plat/prod", "import": "catalog/eks"},
	}

	roots, err := Build(records, "name", "import")
	require.NoError(t, err)
	require.Len(t, roots, 2)

	assert.Equal(t, "catalog/vpc", roots[0].Label)
	require.Len(t, roots[0].Children, 1)
	assert.Equal(t, "mixins/region/us-east-2", roots[0].Children[0].Label)
	require.Len(t, roots[0].Children[0].Children, 1)
	assert.Equal(t, "orgs/plat/dev", roots[0].Children[0].Children[0].Label)

	assert.Equal(t, "catalog/eks", roots[1].Label)
	require.Len(t, roots[1].Children, 1)
}

func TestBuildUnresolvableParentIsRoot(t *testing.T) {
	records := record.Set{
		{"name": "a", "import": "not-in-set"},
		{"name": "b"},
	}
	roots, err := Build(records, "name", "import")
	require.NoError(t, err)
	assert.Len(t, roots, 2)
}

func TestBuildSiblingOrder(t *testing.T) {
	records := record.Set{
		{"name": "root"},
		{"name": "z", "import": "root"},
		{"name": "a", "import": "root"},
		{"name": "m", "import": "root"},
	}
	roots, err := Build(records, "name", "import")
	require.NoError(t, err)
	require.Len(t, roots, 1)

	// Sibling order follows record order, not alphabetical order.
	labels := make([]string, 0, 3)
	for _, child := range roots[0].Children {
		labels = append(labels, child.Label)
	}
	assert.Equal(t, []string{"z", "a", "m"}, labels)
}

func TestBuildDetectsCycle(t *testing.T) {
	records := record.Set{
		{"name": "a", "import": "b"},
		{"name": "b", "import": "c"},
		{"name": "c", "import": "a"},
	}
	_, err := Build(records, "name", "import")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCycle)
}

func TestBuildDetectsSelfReference(t *testing.T) {
	records := record.Set{
		{"name": "a", "import": "a"},
	}
	_, err := Build(records, "name", "import")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCycle)
}

func TestBuildCycleBelowValidRoots(t *testing.T) {
	records := record.Set{
		{"name": "root"},
		{"name": "x", "import": "y"},
		{"name": "y", "import": "x"},
	}
	_, err := Build(records, "name", "import")
	assert.ErrorIs(t, err, ErrCycle)
}

func TestBuildMissingKeyField(t *testing.T) {
	records := record.Set{
		{"other": "value"},
	}
	_, err := Build(records, "name", "import")
	assert.ErrorIs(t, err, ErrMissingKey)
}

func TestBuildDuplicateKey(t *testing.T) {
	records := record.Set{
		{"name": "a"},
		{"name": "a"},
	}
	_, err := Build(records, "name", "import")
	assert.ErrorIs(t, err, ErrDuplicateKey)
}

func TestRender(t *testing.T) {
	roots := []*Node{
		{
			Label: "catalog/vpc",
			Children: []*Node{
				{Label: "orgs/plat/dev"},
				{Label: "orgs/plat/prod"},
			},
		},
	}

	out := Render(roots)
	assert.Contains(t, out, "catalog/vpc")
	assert.Contains(t, out, "orgs/plat/dev")
	assert.Contains(t, out, "orgs/plat/prod")

	// Root precedes children, depth-first.
	assert.Less(t, strings.Index(out, "catalog/vpc"), strings.Index(out, "orgs/plat/dev"))
}

func TestRenderEmptyForest(t *testing.T) {
	assert.Equal(t, "", Render(nil))
}
