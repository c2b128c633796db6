package web

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

// Board renders a read-only view of one room. The page reloads itself
// whenever the room reports a change over the websocket.
func Board(data BoardData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, _ = io.WriteString(w, `<!doctype html>
<html lang="en">
  <head>
    <meta charset="utf-8"/>
    <meta name="viewport" content="width=device-width, initial-scale=1"/>
    <title>`+esc(data.Name)+` &middot; Bingo Rooms</title>
    <style>`+baseStyles+`    </style>
  </head>
  <body>
    <main class="shell">
      <header>
        <span class="tag">Room `+esc(data.Code)+`</span>
        <h1>`+esc(data.Name)+`</h1>
        <p class="muted">Hosted by `+esc(data.HostName)+` &middot; rules: `+esc(joinRules(data.Rules))+`</p>
      </header>
`)
		if !data.IsActive {
			_, _ = io.WriteString(w, `      <section class="panel"><strong>This room is closed.</strong></section>
`)
		}
		if err := boardGame(data).Render(ctx, w); err != nil {
			return err
		}
		_, _ = io.WriteString(w, `      <section class="panel">
        <h2>Players</h2>
        <ul class="rooms">
`)
		for _, v := range data.Visitors {
			role := ""
			if v.IsHost {
				role = " (host)"
			}
			card := ""
			if data.HasGame && !v.HasCard {
				card = " &middot; waiting for next game"
			}
			_, _ = io.WriteString(w, `          <li><span>`+esc(v.Nickname)+role+`</span><span class="muted">joined `+formatTime(v.JoinedAt)+card+`</span></li>
`)
		}
		_, _ = io.WriteString(w, `        </ul>
      </section>
    </main>
    <script>
      const ws = new WebSocket((location.protocol === "https:" ? "wss://" : "ws://") + location.host + "/ws/rooms/`+esc(data.Code)+`");
      ws.addEventListener("message", (event) => {
        const msg = JSON.parse(event.data);
        if (msg.event && !msg.event.startsWith("card-")) {
          window.location.reload();
        }
      });
    </script>
  </body>
</html>
`)
		return nil
	})
}

func boardGame(data BoardData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if !data.HasGame {
			_, err := io.WriteString(w, `      <section class="panel"><p class="muted">Waiting for the host to start a game.</p></section>
`)
			return err
		}
		if data.IsFinished && data.WinnerName != "" {
			_, _ = io.WriteString(w, `      <section class="panel winner"><h2>Bingo! `+esc(data.WinnerName)+` wins with a `+esc(data.WinningRule)+`.</h2></section>
`)
		}
		last := "-"
		if n := data.LastNumber(); n > 0 {
			last = itoa(n)
		}
		_, _ = io.WriteString(w, `      <section class="panel">
        <p class="muted">Last number</p>
        <p class="last">`+last+`</p>
        <p class="muted">`+itoa(len(data.DrawnNumbers))+` of 75 drawn</p>
        <div class="numbers">`)
		drawn := make(map[int]bool, len(data.DrawnNumbers))
		for _, n := range data.DrawnNumbers {
			drawn[n] = true
		}
		for n := 1; n <= 75; n++ {
			class := ""
			if drawn[n] {
				class = ` class="drawn"`
			}
			_, _ = io.WriteString(w, `<span`+class+`>`+itoa(n)+`</span>`)
		}
		_, err := io.WriteString(w, `</div>
      </section>
`)
		return err
	})
}
