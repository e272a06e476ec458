package reducer

import "github.com/on-the-ground/effect_ive_analytics/effects"

// Scope embeds a child feature in a parent one.
//
//   - toChildState points at the child's state inside the parent's.
//   - toChildAction extracts the child action, reporting false for actions the child doesn't own.
//   - fromChildAction wraps child actions sent back by the child's effects.
func Scope[PS, PA, CS, CA any](
	toChildState func(*PS) *CS,
	toChildAction func(PA) (CA, bool),
	fromChildAction func(CA) PA,
	child Reducer[CS, CA],
) Reducer[PS, PA] {
	return Func[PS, PA](func(state *PS, action PA) effects.Effect[PA] {
		childAction, ok := toChildAction(action)
		if !ok {
			return effects.None[PA]()
		}
		return effects.Map(child.Reduce(toChildState(state), childAction), fromChildAction)
	})
}
