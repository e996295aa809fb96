package importer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePastedTable(t *testing.T) {
	recs, err := Parse("Glucose\t180.16\t100\t5\nNaCl\t58.44\n\t\t\t")
	require.NoError(t, err)
	require.Len(t, recs, 2)

	assert.Equal(t, "Glucose", recs[0].Shortname)
	assert.Equal(t, 180.16, recs[0].MolecularWeight)
	require.NotNil(t, recs[0].StandardConcentration)
	assert.Equal(t, 100.0, *recs[0].StandardConcentration)
	require.NotNil(t, recs[0].StandardVolume)
	assert.Equal(t, 5.0, *recs[0].StandardVolume)

	assert.Equal(t, "NaCl", recs[1].Shortname)
	assert.Equal(t, 58.44, recs[1].MolecularWeight)
	assert.Nil(t, recs[1].StandardConcentration)
	assert.Nil(t, recs[1].StandardVolume)
}

func TestParseCRLF(t *testing.T) {
	recs, err := Parse("NaCl\t58.44\r\nKCl\t74.55\r\n")
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "KCl", recs[1].Shortname)
}

func TestParseBlankRowsDropped(t *testing.T) {
	recs, err := Parse("\n\t\nNaCl\t58.44\n\n\t\t\t\n")
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "NaCl", recs[0].Shortname)
}

func TestParseBlankOptionalFieldsStayNil(t *testing.T) {
	recs, err := Parse("Tris\t121.14\t\t")
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Nil(t, recs[0].StandardConcentration)
	assert.Nil(t, recs[0].StandardVolume)
}

func TestParseNonNumericMolecularWeight(t *testing.T) {
	recs, err := Parse("NaCl\t58.44\nBad\tnot-a-number")
	assert.Nil(t, recs, "no partial import on failure")

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, 2, verr.Line)
	assert.Equal(t, "molecular weight", verr.Field)
	assert.Equal(t, "not-a-number", verr.Value)
}

func TestParseMissingMolecularWeight(t *testing.T) {
	_, err := Parse("NaCl\t")
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "molecular weight", verr.Field)
}

func TestParseMissingName(t *testing.T) {
	_, err := Parse("\t58.44")
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, 1, verr.Line)
	assert.Equal(t, "name", verr.Field)
}

func TestParseNonNumericOptionalField(t *testing.T) {
	_, err := Parse("NaCl\t58.44\tabc")
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "standard concentration", verr.Field)

	_, err = Parse("NaCl\t58.44\t150\txyz")
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "standard volume", verr.Field)
}

func TestParseKeepsOrderAndDuplicates(t *testing.T) {
	recs, err := Parse("NaCl\t11\nGlucose\t180.16\nNaCl\t58.44")
	require.NoError(t, err)
	require.Len(t, recs, 3)

	// Duplicates are preserved for the store's last-one-wins upsert.
	assert.Equal(t, "NaCl", recs[0].Shortname)
	assert.Equal(t, "Glucose", recs[1].Shortname)
	assert.Equal(t, "NaCl", recs[2].Shortname)
	assert.Equal(t, 58.44, recs[2].MolecularWeight)
}
