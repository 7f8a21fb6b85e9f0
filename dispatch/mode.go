package dispatch

import "errors"

// paramAt consumes and returns the next unused element of params, starting
// at *i, or "" if none remain. The cursor *i is only advanced when a
// parameter is actually returned.
func paramAt(params []string, i *int) string {
	if *i >= len(params) {
		return ""
	}
	p := params[*i]
	*i++
	return p
}

// applyModeString walks a MODE modestring's "+"/"-" tokens and flag
// letters, invoking apply(flag, on) for each flag. Errors from apply are
// accumulated rather than aborting the walk, so one bad flag does not
// prevent the rest of the string from taking effect.
func applyModeString(modestr string, apply func(flag byte, on bool) error) error {
	on := true
	var errs error
	for i := 0; i < len(modestr); i++ {
		switch c := modestr[i]; c {
		case '+':
			on = true
		case '-':
			on = false
		default:
			if err := apply(c, on); err != nil {
				errs = errors.Join(errs, err)
			}
		}
	}
	return errs
}
