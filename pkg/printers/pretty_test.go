package printers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMaskPwd(t *testing.T) {
	assert.Equal(t, "", MaskPwd(""))
	assert.Equal(t, "s", MaskPwd("s"))
	assert.Equal(t, "s•••••", MaskPwd("secret"))
	assert.Equal(t, "é•••", MaskPwd("étui"))
}
