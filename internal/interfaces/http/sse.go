package http

import (
	"bufio"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"
)

// sseHeartbeat intervalo de los comentarios que mantienen viva la conexión.
const sseHeartbeat = 25 * time.Second

// streamSSE prepara la respuesta como text/event-stream y entrega el writer a run.
// run se ejecuta cuando fasthttp empieza a escribir el cuerpo, después de que el
// handler retornó: no debe usar c.
func streamSSE(c *fiber.Ctx, run func(w *bufio.Writer)) error {
	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set(fiber.HeaderConnection, "keep-alive")
	c.Set("X-Accel-Buffering", "no")
	c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(run))
	return nil
}

// writeSSE escribe un evento con data en JSON. Un error indica que el cliente se fue.
func writeSSE(w *bufio.Writer, event string, data any) error {
	b, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("serializar evento %s: %w", event, err)
	}
	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, b); err != nil {
		return err
	}
	return w.Flush()
}

func writeHeartbeat(w *bufio.Writer) error {
	if _, err := w.WriteString(": ping\n\n"); err != nil {
		return err
	}
	return w.Flush()
}

// offerLatest deja v en ch (capacidad 1) reemplazando el valor pendiente. Nunca bloquea.
func offerLatest[T any](ch chan T, v T) {
	for {
		select {
		case ch <- v:
			return
		default:
		}
		select {
		case <-ch:
		default:
		}
	}
}
