package bridge

// Channel is the fixed set of typed operations crossing from script space
// into the host. Every call is a synchronous round trip that is consistent
// with the host state at the instant it runs; a call against a stale handle,
// a missing component, an unresolved path or a field of another type fails
// with a *FieldError wrapping the matching sentinel.
type Channel interface {
	GetNumber(loc Locator) (float64, error)
	SetNumber(loc Locator, v float64) error
	GetBoolean(loc Locator) (bool, error)
	SetBoolean(loc Locator, v bool) error
	GetString(loc Locator) (string, error)
	SetString(loc Locator, v string) error
	GetVector3(loc Locator) (x, y, z float64, err error)
	SetVector3(loc Locator, x, y, z float64) error

	// Call invokes host logic bound at loc, e.g. "<emitter>.bind".
	Call(loc Locator, args ...any) (any, error)

	// LookupEntityByAbsolutePath resolves a host hierarchy path such as
	// "/UI/Panel/Text".
	LookupEntityByAbsolutePath(path string) (Handle, bool)
}

// Op names one Channel operation.
type Op int

const (
	OpGetNumber Op = iota
	OpSetNumber
	OpGetBoolean
	OpSetBoolean
	OpGetString
	OpSetString
	OpGetVector3
	OpSetVector3
	OpCall
	OpLookup
	opCount
)

var opNames = [opCount]string{
	"getNumber", "setNumber", "getBoolean", "setBoolean", "getString",
	"setString", "getVector3", "setVector3", "call", "lookup",
}

func (o Op) String() string {
	if o < 0 || o >= opCount {
		return "unknown"
	}
	return opNames[o]
}

// CountingChannel wraps a Channel and counts calls per operation.
type CountingChannel struct {
	Channel
	counts [opCount]int
}

func NewCountingChannel(ch Channel) *CountingChannel {
	return &CountingChannel{Channel: ch}
}

func (c *CountingChannel) Count(op Op) int { return c.counts[op] }

func (c *CountingChannel) Total() int {
	n := 0
	for _, v := range c.counts {
		n += v
	}
	return n
}

func (c *CountingChannel) Reset() { c.counts = [opCount]int{} }

func (c *CountingChannel) GetNumber(loc Locator) (float64, error) {
	c.counts[OpGetNumber]++
	return c.Channel.GetNumber(loc)
}

func (c *CountingChannel) SetNumber(loc Locator, v float64) error {
	c.counts[OpSetNumber]++
	return c.Channel.SetNumber(loc, v)
}

func (c *CountingChannel) GetBoolean(loc Locator) (bool, error) {
	c.counts[OpGetBoolean]++
	return c.Channel.GetBoolean(loc)
}

func (c *CountingChannel) SetBoolean(loc Locator, v bool) error {
	c.counts[OpSetBoolean]++
	return c.Channel.SetBoolean(loc, v)
}

func (c *CountingChannel) GetString(loc Locator) (string, error) {
	c.counts[OpGetString]++
	return c.Channel.GetString(loc)
}

func (c *CountingChannel) SetString(loc Locator, v string) error {
	c.counts[OpSetString]++
	return c.Channel.SetString(loc, v)
}

func (c *CountingChannel) GetVector3(loc Locator) (float64, float64, float64, error) {
	c.counts[OpGetVector3]++
	return c.Channel.GetVector3(loc)
}

func (c *CountingChannel) SetVector3(loc Locator, x, y, z float64) error {
	c.counts[OpSetVector3]++
	return c.Channel.SetVector3(loc, x, y, z)
}

func (c *CountingChannel) Call(loc Locator, args ...any) (any, error) {
	c.counts[OpCall]++
	return c.Channel.Call(loc, args...)
}

func (c *CountingChannel) LookupEntityByAbsolutePath(path string) (Handle, bool) {
	c.counts[OpLookup]++
	return c.Channel.LookupEntityByAbsolutePath(path)
}
