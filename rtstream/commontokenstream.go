package rtstream

import "github.com/dekarrin/allstarrt/rttypes"

// CommonTokenStream is the channel-filtering BufferedTokenStream subclass
// (§4.1): the parser only ever sees tokens on Channel (default
// rttypes.TokenDefaultChannel); hidden-channel tokens (comments,
// whitespace) stay in the buffer, reachable via GetHiddenTokensToLeft/Right.
type CommonTokenStream struct {
	*BufferedTokenStream
	Channel int
}

// NewCommonTokenStream returns a stream over source, tuned to channel.
func NewCommonTokenStream(source rttypes.TokenSource, channel int) *CommonTokenStream {
	cts := &CommonTokenStream{
		BufferedTokenStream: NewBufferedTokenStream(source),
		Channel:             channel,
	}
	cts.self = cts
	return cts
}

// AdjustSeekIndex skips forward to the next token on Channel, fetching more
// input as needed (§4.1).
func (c *CommonTokenStream) AdjustSeekIndex(i int) int {
	return c.nextTokenOnChannel(i)
}

func (c *CommonTokenStream) nextTokenOnChannel(i int) int {
	c.sync(i)
	if i >= len(c.tokens) {
		return len(c.tokens) - 1
	}
	t := c.tokens[i]
	for t.Channel() != c.Channel {
		if t.Type() == rttypes.TokenEOF {
			return i
		}
		i++
		c.sync(i)
		t = c.tokens[i]
	}
	return i
}

func (c *CommonTokenStream) previousTokenOnChannel(i int) int {
	for i >= 0 {
		t := c.tokens[i]
		if t.Channel() == c.Channel || t.Type() == rttypes.TokenEOF {
			return i
		}
		i--
	}
	return i
}

// LookToken counts only on-channel tokens while walking the buffer, so that
// LT(1) means "the next on-channel token" even when hidden tokens sit
// between the cursor and it (§4.1).
func (c *CommonTokenStream) LookToken(k int) rttypes.Token {
	c.lazyInit()
	if k == 0 {
		return nil
	}
	if k < 0 {
		return c.lookBackOnChannel(-k)
	}

	i := c.p
	n := 1
	for n < k {
		if c.sync(i + 1) {
			i = c.nextTokenOnChannel(i + 1)
		}
		if i >= len(c.tokens)-1 && c.tokens[len(c.tokens)-1].Type() == rttypes.TokenEOF {
			return c.tokens[len(c.tokens)-1]
		}
		n++
	}
	if i < 0 || i >= len(c.tokens) {
		return c.tokens[len(c.tokens)-1]
	}
	return c.tokens[i]
}

func (c *CommonTokenStream) lookBackOnChannel(k int) rttypes.Token {
	i := c.p
	n := 1
	for n <= k && i > 0 {
		i = c.previousTokenOnChannel(i - 1)
		n++
	}
	if i < 0 {
		return nil
	}
	return c.tokens[i]
}

// numberOfOnChannelTokens counts EOF at most once (§4.1).
func (c *CommonTokenStream) numberOfOnChannelTokens() int {
	c.Fill()
	n := 0
	seenEOF := false
	for _, t := range c.tokens {
		if t.Type() == rttypes.TokenEOF {
			if seenEOF {
				continue
			}
			seenEOF = true
		}
		if t.Channel() == c.Channel {
			n++
		}
	}
	return n
}
