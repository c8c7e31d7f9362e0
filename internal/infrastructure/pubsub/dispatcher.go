// Package pubsub entrega eventos de cambio a suscriptores en orden, una vez por
// suscriptor y de forma síncrona respecto a la mutación que los produjo.
//
// Las mutaciones se serializan con el candado de despacho, que no se retiene mientras
// corren los listeners. La primera mutación abre un ciclo y lo conduce: entrega sus
// eventos y todos los que se encolen mientras tanto, y retorna cuando la cola queda
// vacía. Una mutación que llega con un ciclo abierto (desde un listener, con el ctx
// que sea, o desde otra goroutine) se aplica de inmediato, encola sus eventos al
// final del ciclo y retorna sin esperar la entrega. MaxCascade acota cuántas
// mutaciones llegadas mientras corre un listener se suman a un mismo ciclo.
package pubsub

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/jhoicas/ops-dashboard-api/internal/domain"
	"github.com/jhoicas/ops-dashboard-api/pkg/logger"
)

// DefaultMaxCascade mutaciones que pueden sumarse a un ciclo mientras corren sus listeners.
const DefaultMaxCascade = 64

// Listener recibe un evento. El ctx sólo es válido durante la llamada.
type Listener[E any] func(ctx context.Context, ev E)

// EmitFunc publica un evento en el ciclo actual.
type EmitFunc[E any] func(topic string, ev E)

// Dispatcher publica eventos de tipo E agrupados por tópico.
type Dispatcher[E any] struct {
	mu     sync.Mutex
	topics map[string][]*subscription[E]
	nextID uint64

	// dispatchMu protege las mutaciones y active.
	dispatchMu sync.Mutex
	active     *cycle[E]
	maxCascade int
	log        *logger.Logger
}

type subscription[E any] struct {
	id     uint64
	fn     Listener[E]
	closed atomic.Bool
}

type pending[E any] struct {
	topic string
	ev    E
}

type cycle[E any] struct {
	queue      []pending[E]
	cascade    int
	delivering bool
}

// New construye un dispatcher. maxCascade <= 0 usa DefaultMaxCascade.
func New[E any](log *logger.Logger, maxCascade int) *Dispatcher[E] {
	if maxCascade <= 0 {
		maxCascade = DefaultMaxCascade
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Dispatcher[E]{
		topics:     make(map[string][]*subscription[E]),
		maxCascade: maxCascade,
		log:        log,
	}
}

// Subscribe registra fn en topic. La función devuelta lo desregistra; llamarla
// más de una vez no tiene efecto.
func (d *Dispatcher[E]) Subscribe(topic string, fn Listener[E]) func() {
	d.mu.Lock()
	d.nextID++
	sub := &subscription[E]{id: d.nextID, fn: fn}
	d.topics[topic] = append(d.topics[topic], sub)
	d.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			sub.closed.Store(true)
			d.mu.Lock()
			defer d.mu.Unlock()
			subs := d.topics[topic]
			for i, s := range subs {
				if s.id == sub.id {
					d.topics[topic] = append(subs[:i:i], subs[i+1:]...)
					break
				}
			}
			if len(d.topics[topic]) == 0 {
				delete(d.topics, topic)
			}
		})
	}
}

// Listeners cantidad de suscriptores activos en topic.
func (d *Dispatcher[E]) Listeners(topic string) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.topics[topic])
}

// Do ejecuta mutate y entrega los eventos que emita. Si mutate falla no se entrega nada.
// Con un ciclo abierto los eventos se suman a él y Do retorna sin esperar la entrega;
// si mientras corre un listener el ciclo ya sumó MaxCascade mutaciones, mutate no se
// ejecuta y se devuelve ErrCascadeLimit.
func (d *Dispatcher[E]) Do(ctx context.Context, mutate func(emit EmitFunc[E]) error) error {
	c, lead, err := d.apply(mutate)
	if err != nil || !lead {
		return err
	}
	d.drain(context.WithoutCancel(ctx), c)
	return nil
}

// apply ejecuta mutate bajo el candado de despacho. lead=true indica que se abrió un
// ciclo nuevo y el llamador debe conducirlo.
func (d *Dispatcher[E]) apply(mutate func(emit EmitFunc[E]) error) (c *cycle[E], lead bool, err error) {
	d.dispatchMu.Lock()
	defer d.dispatchMu.Unlock()

	c = d.active
	cascading := c != nil && c.delivering
	if cascading && c.cascade >= d.maxCascade {
		d.log.Warn().Int("max_cascade", d.maxCascade).Msg("mutación rechazada: ciclo de entrega saturado")
		return nil, false, domain.ErrCascadeLimit
	}

	var events []pending[E]
	if err := mutate(func(topic string, ev E) {
		events = append(events, pending[E]{topic: topic, ev: ev})
	}); err != nil {
		return nil, false, err
	}
	if len(events) == 0 {
		return nil, false, nil
	}
	if c != nil {
		if cascading {
			c.cascade++
		}
		c.queue = append(c.queue, events...)
		return nil, false, nil
	}
	d.active = &cycle[E]{queue: events}
	return d.active, true, nil
}

// drain entrega la cola de c hasta vaciarla y cierra el ciclo.
func (d *Dispatcher[E]) drain(ctx context.Context, c *cycle[E]) {
	for {
		d.dispatchMu.Lock()
		if len(c.queue) == 0 {
			d.active = nil
			d.dispatchMu.Unlock()
			return
		}
		p := c.queue[0]
		c.queue = c.queue[1:]
		c.delivering = true
		d.dispatchMu.Unlock()

		d.mu.Lock()
		subs := make([]*subscription[E], len(d.topics[p.topic]))
		copy(subs, d.topics[p.topic])
		d.mu.Unlock()

		for _, s := range subs {
			if s.closed.Load() {
				continue
			}
			d.deliver(ctx, s, p)
		}

		d.dispatchMu.Lock()
		c.delivering = false
		d.dispatchMu.Unlock()
	}
}

func (d *Dispatcher[E]) deliver(ctx context.Context, s *subscription[E], p pending[E]) {
	defer func() {
		if r := recover(); r != nil {
			d.log.Error().Interface("panic", r).Str("topic", p.topic).Msg("listener falló; se continúa con el siguiente")
		}
	}()
	s.fn(ctx, p.ev)
}
