package interaction

// CollisionEnabled mirrors the collision mode of a physics volume.
type CollisionEnabled uint8

const (
	NoCollision CollisionEnabled = iota
	QueryOnly
	PhysicsOnly
	QueryAndPhysics
)

// Response is how a volume reacts to a collision channel.
type Response uint8

const (
	ResponseIgnore Response = iota
	ResponseOverlap
	ResponseBlock
)

// Channel names a collision channel.
type Channel string

// Volume is a collision primitive owned by the physics layer. The core only
// reads and writes the few settings that decide whether overlaps are reported.
type Volume interface {
	Name() string
	CollisionEnabled() CollisionEnabled
	SetCollisionEnabled(CollisionEnabled)
	GeneratesOverlapEvents() bool
	SetGenerateOverlapEvents(bool)
	ResponseTo(Channel) Response
	SetResponseTo(Channel, Response)
}

// CollisionAdapter lets the physics layer prepare an interactable's volumes
// for its channel when the interactable is activated.
type CollisionAdapter interface {
	ConfigureChannel(v Volume, ch Channel)
}

// CollisionAdapterFunc adapts a function to CollisionAdapter.
type CollisionAdapterFunc func(v Volume, ch Channel)

func (f CollisionAdapterFunc) ConfigureChannel(v Volume, ch Channel) { f(v, ch) }

// OverlapChannel is the default adapter: query-only collision that overlaps ch.
var OverlapChannel CollisionAdapter = CollisionAdapterFunc(func(v Volume, ch Channel) {
	v.SetCollisionEnabled(QueryOnly)
	v.SetGenerateOverlapEvents(true)
	v.SetResponseTo(ch, ResponseOverlap)
})

// Shape is an in-memory Volume for headless simulations and tests.
type Shape struct {
	name      string
	enabled   CollisionEnabled
	overlaps  bool
	responses map[Channel]Response
}

func NewShape(name string) *Shape {
	return &Shape{name: name, responses: make(map[Channel]Response)}
}

func (s *Shape) Name() string                              { return s.name }
func (s *Shape) CollisionEnabled() CollisionEnabled        { return s.enabled }
func (s *Shape) SetCollisionEnabled(mode CollisionEnabled) { s.enabled = mode }
func (s *Shape) GeneratesOverlapEvents() bool              { return s.overlaps }
func (s *Shape) SetGenerateOverlapEvents(on bool)          { s.overlaps = on }
func (s *Shape) ResponseTo(ch Channel) Response            { return s.responses[ch] }
func (s *Shape) SetResponseTo(ch Channel, r Response)      { s.responses[ch] = r }

type volumeSettings struct {
	enabled  CollisionEnabled
	overlaps bool
	response Response
}

// volumeSet keeps the volumes of one component in insertion order together
// with the settings they had before being bound.
type volumeSet struct {
	volumes []Volume
	cached  map[Volume]volumeSettings
}

func newVolumeSet() *volumeSet {
	return &volumeSet{cached: make(map[Volume]volumeSettings)}
}

func (s *volumeSet) index(v Volume) int {
	for i, existing := range s.volumes {
		if existing == v {
			return i
		}
	}
	return -1
}

func (s *volumeSet) add(v Volume) bool {
	if v == nil || s.index(v) >= 0 {
		return false
	}
	s.volumes = append(s.volumes, v)
	return true
}

// remove drops v, restoring its cached settings first.
func (s *volumeSet) remove(v Volume, ch Channel) bool {
	idx := s.index(v)
	if idx < 0 {
		return false
	}
	if prev, ok := s.cached[v]; ok {
		restore(v, ch, prev)
		delete(s.cached, v)
	}
	s.volumes = append(s.volumes[:idx], s.volumes[idx+1:]...)
	return true
}

func (s *volumeSet) list() []Volume {
	out := make([]Volume, len(s.volumes))
	copy(out, s.volumes)
	return out
}

func (s *volumeSet) bind(ch Channel) {
	for _, v := range s.volumes {
		if _, ok := s.cached[v]; !ok {
			s.cached[v] = volumeSettings{
				enabled:  v.CollisionEnabled(),
				overlaps: v.GeneratesOverlapEvents(),
				response: v.ResponseTo(ch),
			}
		}
		v.SetCollisionEnabled(QueryOnly)
		v.SetGenerateOverlapEvents(true)
		v.SetResponseTo(ch, ResponseOverlap)
	}
}

func (s *volumeSet) unbind(ch Channel) {
	for _, v := range s.volumes {
		prev, ok := s.cached[v]
		if !ok {
			prev = volumeSettings{enabled: QueryOnly, overlaps: true, response: ResponseOverlap}
		}
		restore(v, ch, prev)
		delete(s.cached, v)
	}
}

func restore(v Volume, ch Channel, prev volumeSettings) {
	v.SetCollisionEnabled(prev.enabled)
	v.SetGenerateOverlapEvents(prev.overlaps)
	v.SetResponseTo(ch, prev.response)
}
