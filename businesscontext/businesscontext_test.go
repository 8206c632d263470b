package businesscontext

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuilderBuild(t *testing.T) {
	bc := NewBuilder().
		BusinessID("b-1").
		TenantID("acme").
		CustomAttribute("region", "eu-west-1").
		Build()

	assert.Equal(t, "b-1", bc.BusinessID())
	assert.Equal(t, "acme", bc.TenantID())
	assert.Equal(t, map[string]string{"region": "eu-west-1"}, bc.CustomAttributes())
	assert.False(t, bc.IsEmpty())
}

func TestBuiltValueDoesNotAliasBuilder(t *testing.T) {
	b := NewBuilder().CustomAttribute("k", "v1")
	bc := b.Build()

	b.CustomAttribute("k", "v2")

	assert.Equal(t, "v1", bc.CustomAttributes()["k"])
}

func TestToBuilderRebuild(t *testing.T) {
	original := NewBuilder().
		UserID("u-1").
		Operation("create").
		CustomAttribute("flow", "checkout").
		Build()

	rebuilt := original.ToBuilder().Operation("update").Build()

	assert.Equal(t, "u-1", rebuilt.UserID())
	assert.Equal(t, "update", rebuilt.Operation())
	assert.Equal(t, "checkout", rebuilt.CustomAttributes()["flow"])
	// the original stays untouched
	assert.Equal(t, "create", original.Operation())
}

func TestCustomAttributesReturnsCopy(t *testing.T) {
	bc := NewBuilder().CustomAttribute("k", "v").Build()

	m := bc.CustomAttributes()
	m["k"] = "mutated"

	assert.Equal(t, "v", bc.CustomAttributes()["k"])
}

func TestIsEmpty(t *testing.T) {
	assert.True(t, BusinessContext{}.IsEmpty())
	assert.True(t, NewBuilder().Build().IsEmpty())
	assert.False(t, NewBuilder().SessionID("s-1").Build().IsEmpty())
}
