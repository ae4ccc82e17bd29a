package optimizer

// decimate copies src keys to the result except the ones reconstructible from
// their retained neighbors by lerp within tolerance.
//
// The scan is greedy and forward-looking: lastPushed is the most recently
// retained key, and candidate key i is dropped only if every key in
// ]lastPushed, i] can be rebuilt by interpolating between lastPushed and i+1.
// First and last keys are always retained verbatim. The policy is
// deterministic and not globally optimal; the runtime sampler's accuracy
// depends on reproducing exactly these retained points.
func decimate[K, V any](
	src []K,
	tolerance float64,
	keyTime func(K) float64,
	keyValue func(K) V,
	compare func(interpolated, actual V, tolerance float64) bool,
	lerp func(a, b V, alpha float64) V,
) []K {
	if len(src) == 0 {
		return nil
	}

	dest := make([]K, 0, len(src))
	lastPushed := 0
	for i := range src {
		if i == 0 || i == len(src)-1 {
			dest = append(dest, src[i])
			lastPushed = i
			continue
		}

		left := src[lastPushed]
		right := src[i+1]
		for j := lastPushed + 1; j <= i; j++ {
			test := src[j]
			// Key times are strictly increasing, so alpha lands in [0, 1].
			alpha := (keyTime(test) - keyTime(left)) / (keyTime(right) - keyTime(left))
			if !compare(lerp(keyValue(left), keyValue(right), alpha), keyValue(test), tolerance) {
				dest = append(dest, src[i])
				lastPushed = i
				break
			}
		}
	}
	return dest
}
