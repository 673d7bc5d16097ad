package scene

// Behaviour is per-frame application logic attached to a Loop.
type Behaviour interface {
	// Start runs once, on the first frame the behaviour is part of, before any Update.
	Start()
	// Update runs every later frame; dt is the frame time in seconds.
	Update(dt float64)
}

// BehaviourFuncs adapts plain functions to Behaviour. Nil fields are skipped.
type BehaviourFuncs struct {
	OnStart  func()
	OnUpdate func(dt float64)
}

func (b *BehaviourFuncs) Start() {
	if b.OnStart != nil {
		b.OnStart()
	}
}

func (b *BehaviourFuncs) Update(dt float64) {
	if b.OnUpdate != nil {
		b.OnUpdate(dt)
	}
}

type behaviourEntry struct {
	b         Behaviour
	started   bool
	startedAt uint64
}

// Loop drives behaviours. Each Tick first starts every behaviour that has
// not started yet, then updates the ones that were already running.
type Loop struct {
	entries []behaviourEntry
	frame   uint64
}

func (l *Loop) Add(b Behaviour) {
	l.entries = append(l.entries, behaviourEntry{b: b})
}

// Remove drops b. It returns false if b was not registered.
func (l *Loop) Remove(b Behaviour) bool {
	for i := range l.entries {
		if l.entries[i].b == b {
			l.entries = append(l.entries[:i], l.entries[i+1:]...)
			return true
		}
	}
	return false
}

func (l *Loop) Len() int { return len(l.entries) }

// Frame is the number of completed ticks.
func (l *Loop) Frame() uint64 { return l.frame }

func (l *Loop) Tick(dt float64) {
	started := 0
	for i := range l.entries {
		e := &l.entries[i]
		if !e.started {
			e.started = true
			e.startedAt = l.frame
			e.b.Start()
			started++
		}
	}
	if started > 0 {
		Logger().WithField("frame", l.frame).Infof("started %d behaviours", started)
	}

	for i := range l.entries {
		if e := &l.entries[i]; e.started && e.startedAt < l.frame {
			e.b.Update(dt)
		}
	}
	l.frame++
}
