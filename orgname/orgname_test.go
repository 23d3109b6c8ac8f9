package orgname

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanPassesPlainNamesThrough(t *testing.T) {
	assert.Equal(t, "Bekk Consulting", Clean("Bekk Consulting"))
	assert.Equal(t, "", Clean("   "))
}

func TestCleanSplitsCompoundEntries(t *testing.T) {
	assert.Equal(t, "Utvikler", Clean("Utvikler - Skatteetaten"))
	assert.Equal(t, "Bekk", Clean("konsulent hos Bekk"))
	assert.Equal(t, "Netcompany", Clean("utvikler @ Netcompany"))
	assert.Equal(t, "NAV", Clean("rådgiver i NAV"))
	// " i " only wins for short tails, so long ones stay intact
	assert.Equal(t, "Prosjektet i Digitaliseringsetaten Oslo", Clean("Prosjektet i Digitaliseringsetaten Oslo"))
}

func TestCleanExtractsTrailingAcronym(t *testing.T) {
	assert.Equal(t, "SSB", Clean("Statistisk sentralbyrå (SSB)"))
	assert.Equal(t, "FHI", Clean("Folkehelseinstituttet (FHI)"))
	// lowercase parenthetical is stripped, not extracted
	assert.Equal(t, "Skatteetaten", Clean("Skatteetaten (divisjon IT)"))
}

func TestCleanPrefersCommaTail(t *testing.T) {
	assert.Equal(t, "Politiet", Clean("Seksjon for data, Politiet"))
	assert.Equal(t, "NAV", Clean("IT-avdelingen, Arbeids- og velferdsetaten"))
}

func TestCleanStripsJobTitlePrefix(t *testing.T) {
	assert.Equal(t, "KARTVERKET", Clean("rådgiver Kartverket"))
	assert.Equal(t, "TELENOR", Clean("Senior Telenor"))
	assert.Equal(t, "Spenn", Clean("konsulent Spenn"))
}

func TestCleanMapsLongFormsToAcronyms(t *testing.T) {
	assert.Equal(t, "NAV", Clean("Arbeids- og velferdsetaten"))
	assert.Equal(t, "DIGDIR", Clean("Digitaliseringsdirektoratet"))
	assert.Equal(t, "LÅNEKASSEN", Clean("Statens lånekasse for utdanning"))
	assert.Equal(t, "NTNU", Clean("Norges teknisk-naturvitenskapelige universitet"))
}

func TestCleanUppercasesKnownAcronyms(t *testing.T) {
	for acronym := range knownAcronyms {
		assert.Equal(t, acronym, Clean(strings.ToLower(acronym)), "acronym %q", acronym)
	}
}

func TestUniqueCleanDeduplicatesCaseInsensitively(t *testing.T) {
	set := UniqueClean([]string{"NAV", "nav", "Nav", "Arbeids- og velferdsetaten"})
	assert.Len(t, set, 1)

	set = UniqueClean([]string{"Statistisk sentralbyrå (SSB)", "ssb", "Bekk", ""})
	assert.Len(t, set, 2)
}

func TestDisplay(t *testing.T) {
	assert.Equal(t, "NAV", Display("nav"))
	assert.Equal(t, "Bekk Consulting", Display("bekk consulting"))
	assert.Equal(t, "", Display(""))
}
