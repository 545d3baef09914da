package equation

// extractBlock collects the tokens of a bracketed block. i is the index of the
// first token after the block's open bracket, which open is. The result is the
// block's tokens without the matching close bracket and the index following
// that bracket.
func extractBlock(toks []Token, i int, open Token) ([]Token, int, error) {
	depth := 1
	var block []Token
	for ; i < len(toks); i++ {
		switch toks[i].kind {
		case tokenOpen:
			depth++
		case tokenClose:
			depth--
			if depth == 0 {
				return block, i + 1, nil
			}
		}
		block = append(block, toks[i])
	}
	if block == nil {
		block = []Token{}
	}
	return nil, i, &BracketError{Col: open.pos, Left: open.text, Block: block}
}
