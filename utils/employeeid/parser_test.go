package employeeid

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseEmployeeID(t *testing.T) {
	assert.Equal(t, "EMP-42", ParseEmployeeID("EMP-42"))
	assert.Equal(t, "EMP-42", ParseEmployeeID("  emp 42 "))
	assert.Equal(t, "EMP-7", ParseEmployeeID("https://portal.example.com/verify/EMP-7"))
	assert.Equal(t, "a b", ParseEmployeeID("https://portal.example.com/verify/a%20b"))
	assert.Equal(t, "EMP-0091", ParseEmployeeID("Employee EMP-0091 verified by HR"))
	assert.Equal(t, "abc123", ParseEmployeeID("abc123"))
	assert.Empty(t, ParseEmployeeID("just some text"))
	assert.Empty(t, ParseEmployeeID(""))
}
