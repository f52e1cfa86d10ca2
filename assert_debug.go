//go:build quantbin_debug

package quantbin

const debugAssertions = true
