package batch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBatch_AddRow_KeepsColumnOrder(t *testing.T) {
	b := New("title", "job_number")

	b.AddRow(Row{"title": "介護職員", "job_number": "26010-00812341"})
	b.AddRow(Row{"title": "調理師", "job_number": "26010-00998877", "wage": "200,000円"})

	// Registered columns keep their order; the never-seen column lands
	// after them.
	assert.Equal(t, []string{"title", "job_number", "wage"}, b.Columns)
	assert.Equal(t, 2, b.Len())
}

func TestBatch_AddRow_UnseenColumnsSorted(t *testing.T) {
	b := New("a")
	b.AddRow(Row{"a": "1", "z": "2", "m": "3", "b": "4"})

	assert.Equal(t, []string{"a", "b", "m", "z"}, b.Columns)
}

func TestBatch_EnsureColumns_SkipsDuplicates(t *testing.T) {
	b := New("a", "b")
	b.EnsureColumns("b", "c", "a")

	assert.Equal(t, []string{"a", "b", "c"}, b.Columns)
}

func TestBatch_ColumnSet_SkipsEmptyValues(t *testing.T) {
	b := New("job_number_ref")
	b.AddRow(Row{"job_number_ref": "101-5"})
	b.AddRow(Row{"job_number_ref": ""})
	b.AddRow(Row{"job_number_ref": "101-6"})
	b.AddRow(Row{"job_number_ref": "101-5"})

	set := b.ColumnSet("job_number_ref")
	assert.Equal(t, 2, set.Cardinality())
	assert.True(t, set.Contains("101-5"))
	assert.True(t, set.Contains("101-6"))
	assert.False(t, set.Contains(""))
}

func TestBatch_RequireColumns(t *testing.T) {
	b := New("job_number", "title")

	require.NoError(t, b.RequireColumns("job_number"))

	err := b.RequireColumns("job_number", "detail_link_href")
	require.Error(t, err)
	var missing *MissingColumnsError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, []string{"detail_link_href"}, missing.Missing)
}

func TestBatch_RequireAnyColumn(t *testing.T) {
	b := New("job_number")

	assert.NoError(t, b.RequireAnyColumn("kSNoJo", "job_number"))
	assert.Error(t, b.RequireAnyColumn("kSNoJo", "kSNoGe"))
}

func TestBatch_LiteralConstruction(t *testing.T) {
	// Tests build batches with literals; the column index must rebuild
	// itself lazily.
	b := &Batch{Columns: []string{"a", "b"}}
	assert.True(t, b.HasColumn("a"))
	b.AddRow(Row{"a": "1", "b": "2"})
	assert.Equal(t, []string{"a", "b"}, b.Columns)
}

func TestRow_Get_AbsentIsEmpty(t *testing.T) {
	row := Row{"a": "1"}
	assert.Equal(t, "", row.Get("missing"))
}

func TestRow_Clone_Independent(t *testing.T) {
	row := Row{"a": "1"}
	clone := row.Clone()
	clone["a"] = "2"
	assert.Equal(t, "1", row["a"])
}
