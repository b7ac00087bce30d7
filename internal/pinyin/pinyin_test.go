package pinyin

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFullTransliteratesHanText(t *testing.T) {
	assert.Equal(t, "dianzi", Full("电子"))
	assert.Equal(t, "jingmidianzitianping", Full("精密电子天平"))
}

func TestInitialsConcatenateFirstLetters(t *testing.T) {
	assert.Equal(t, "dz", Initials("电子"))
	assert.Equal(t, "jmdztp", Initials("精密电子天平"))
}

func TestNonHanTextFallsBackToItself(t *testing.T) {
	assert.Equal(t, "bm-2023-001", Full("BM-2023-001"))
	assert.Equal(t, "bm-2023-001", Initials("BM-2023-001"))
}

func TestMixedScriptKeepsBothParts(t *testing.T) {
	assert.Equal(t, "tianpingx200", Full("天平X200"))
}

func TestEmptyInput(t *testing.T) {
	assert.Equal(t, "", Full(""))
	assert.Equal(t, "", Initials(""))
}
