// ABOUTME: Secure overwrite of credential bytes before they are released
// ABOUTME: Runs on every teardown path, including failed partial loads

package realm

// wipeSentinel is the fixed value written over freed credential bytes. Any
// non-zero value works; 42 is the historical choice.
const wipeSentinel = 0x2a

// WipeBytes overwrites b with the wipe sentinel to reduce residual secret
// exposure in released memory. It is safe on nil or empty slices.
func WipeBytes(b []byte) {
	for i := range b {
		b[i] = wipeSentinel
	}
}
