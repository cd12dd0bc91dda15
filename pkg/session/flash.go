package session

import "slices"

// Flash stores messages under key in the flash namespace, replacing any
// messages already flashed there. They are returned once by GetFlash.
//
// All flows in a session share one namespace, so two flows flashing the same
// key overwrite each other.
func (s *Session) Flash(key string, messages []string) {
	values := s.provider.Values()
	prefix := s.config.flashPrefix()

	bag, _ := flashBag(values[prefix])
	if bag == nil {
		bag = make(map[string][]string, 1)
	}
	bag[key] = slices.Clone(messages)
	values[prefix] = bag
}

// GetFlash returns the messages flashed under key and removes them, so a
// second call returns an empty slice. The result is never nil.
func (s *Session) GetFlash(key string) []string {
	values := s.provider.Values()
	prefix := s.config.flashPrefix()

	bag, ok := flashBag(values[prefix])
	if !ok {
		return []string{}
	}

	messages, found := bag[key]
	delete(bag, key)
	if len(bag) == 0 {
		delete(values, prefix)
	} else {
		values[prefix] = bag
	}

	if !found || messages == nil {
		return []string{}
	}
	return messages
}

// flashBag converts the stored namespace into map[string][]string. Data that
// went through a codec comes back as map[string]any holding []any.
func flashBag(v any) (map[string][]string, bool) {
	switch bag := v.(type) {
	case map[string][]string:
		return bag, true
	case map[string]any:
		out := make(map[string][]string, len(bag))
		for k, raw := range bag {
			out[k] = toStrings(raw)
		}
		return out, true
	default:
		return nil, false
	}
}

func toStrings(v any) []string {
	switch list := v.(type) {
	case []string:
		return list
	case []any:
		out := make([]string, 0, len(list))
		for _, item := range list {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}
