package tokenizer

// Encode maps text to its token id sequence. It is a pure function of
// (text, vocabulary, merge table): deterministic, no I/O, no hidden state.
// An empty input yields an empty, non-nil slice.
func (t *Tokenizer) Encode(text string) ([]int, error) {
	if text == "" {
		return []int{}, nil
	}

	ids := make([]int, 0, len(text)/3+1)
	for _, pre := range pretokenize(text) {
		preIDs, err := t.encodePretoken(pre)
		if err != nil {
			return nil, err
		}
		ids = append(ids, preIDs...)
	}
	return ids, nil
}

// EncodeTokens is Encode but returns the merged token strings instead of
// ids, for inspection output.
func (t *Tokenizer) EncodeTokens(text string) ([]string, error) {
	ids, err := t.Encode(text)
	if err != nil {
		return nil, err
	}
	toks := make([]string, len(ids))
	for i, id := range ids {
		toks[i] = t.inverse[id]
	}
	return toks, nil
}

func (t *Tokenizer) encodePretoken(pre string) ([]int, error) {
	if cached, ok := t.cache.Load(pre); ok {
		return cached.([]int), nil
	}

	syms := t.merge(symbolize(pre))

	ids := make([]int, len(syms))
	for i, sym := range syms {
		id, ok := t.vocab[sym]
		if !ok {
			return nil, &UnknownTokenError{Token: sym}
		}
		ids[i] = id
	}

	t.cache.Store(pre, ids)
	return ids, nil
}

// merge applies the BPE merge loop: each pass scans all adjacent pairs for
// the lowest-rank entry in the merge table, then fuses every
// non-overlapping occurrence of that exact pair left to right. Ranks must
// be re-scanned each pass because a merge can expose a new adjacent pair
// with lower rank than anything available before. Terminates when a single
// symbol remains or no adjacent pair is in the table.
func (t *Tokenizer) merge(syms []string) []string {
	for len(syms) > 1 {
		bestRank := -1
		var best symbolPair
		for i := 0; i+1 < len(syms); i++ {
			p := symbolPair{left: syms[i], right: syms[i+1]}
			if rank, ok := t.ranks[p]; ok && (bestRank < 0 || rank < bestRank) {
				bestRank = rank
				best = p
			}
		}
		if bestRank < 0 {
			break
		}

		fused := make([]string, 0, len(syms)-1)
		for i := 0; i < len(syms); {
			if i+1 < len(syms) && syms[i] == best.left && syms[i+1] == best.right {
				fused = append(fused, best.left+best.right)
				i += 2
			} else {
				fused = append(fused, syms[i])
				i++
			}
		}
		syms = fused
	}
	return syms
}
