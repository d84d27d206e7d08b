package stockwatch

type Transition int

const (
	TransitionNewlyOutOfStock Transition = iota
	TransitionStillOutOfStock
	TransitionRestocked
)

func (t Transition) Label() string {
	switch t {
	case TransitionNewlyOutOfStock:
		return "newly out of stock"
	case TransitionStillOutOfStock:
		return "still out of stock"
	case TransitionRestocked:
		return "restocked"
	}
	return "unknown"
}

type Change struct {
	Sku        string
	Transition Transition
}

// Diff classifies every sku in the input universe by its membership
// in the previous and current out-of-stock sets, preserving input
// order. skus whose probe failed this run are not classified, the
// run never learned their state. skus out of stock in neither run
// produce no entry.
func Diff(universe []string, failed, previous, current map[string]struct{}) []Change {
	var changes []Change
	for _, sku := range universe {
		if _, ok := failed[sku]; ok {
			continue
		}
		_, wasOut := previous[sku]
		_, isOut := current[sku]

		switch {
		case !wasOut && isOut:
			changes = append(changes, Change{Sku: sku, Transition: TransitionNewlyOutOfStock})
		case wasOut && isOut:
			changes = append(changes, Change{Sku: sku, Transition: TransitionStillOutOfStock})
		case wasOut && !isOut:
			changes = append(changes, Change{Sku: sku, Transition: TransitionRestocked})
		}
	}
	return changes
}
