package web

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

func Home(rooms []RoomSummary) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, _ = io.WriteString(w, `<!doctype html>
<html lang="en">
  <head>
    <meta charset="utf-8"/>
    <meta name="viewport" content="width=device-width, initial-scale=1"/>
    <title>Bingo Rooms</title>
    <style>`+baseStyles+`    </style>
  </head>
  <body>
    <main class="shell">
      <header>
        <span class="tag">Bingo Rooms</span>
        <h1>Host a bingo night.</h1>
        <p>Open a room, share the code and draw numbers live.</p>
      </header>

      <section class="panel">
        <h2>Create a room</h2>
        <form id="createForm">
          <input name="name" placeholder="Room name" required/>
          <input name="hostName" placeholder="Your nickname" required/>
          <input name="maxCards" type="number" min="1" max="50" value="10" required/>
          <label><input type="checkbox" name="rules" value="line" checked/> line</label>
          <label><input type="checkbox" name="rules" value="column"/> column</label>
          <label><input type="checkbox" name="rules" value="full"/> full</label>
          <button type="submit">Create room</button>
        </form>
        <div id="createResult" class="muted"></div>
      </section>

      <section class="panel">
        <h2>Join a room</h2>
        <form id="joinForm">
          <input name="code" placeholder="Room code" autocomplete="off" required/>
          <input name="nickname" placeholder="Nickname" required/>
          <button type="submit">Join room</button>
        </form>
        <div id="joinResult" class="muted"></div>
      </section>

      <section class="panel">
        <h2>Open rooms</h2>
        <div id="roomList">`)
		if err := ActiveRoomsList(rooms).Render(ctx, w); err != nil {
			return err
		}
		_, _ = io.WriteString(w, `</div>
      </section>
    </main>

    <script>
      const visitorId = localStorage.getItem("visitorId") || crypto.randomUUID();
      localStorage.setItem("visitorId", visitorId);

      const post = async (path, body) => {
        const res = await fetch(path, {
          method: "POST",
          headers: { "Content-Type": "application/json" },
          body: JSON.stringify(body)
        });
        return { ok: res.ok, data: await res.json() };
      };

      document.getElementById("createForm").addEventListener("submit", async (event) => {
        event.preventDefault();
        const form = event.target;
        const rules = [...form.querySelectorAll("input[name=rules]:checked")].map((el) => el.value);
        const { ok, data } = await post("/api/rooms", {
          name: form.elements.name.value.trim(),
          hostId: visitorId,
          hostName: form.elements.hostName.value.trim(),
          maxCards: Number(form.elements.maxCards.value),
          rules
        });
        const out = document.getElementById("createResult");
        if (!ok) {
          out.textContent = data.error || "Failed to create room.";
          return;
        }
        window.location.href = "/rooms/" + data.code;
      });

      document.getElementById("joinForm").addEventListener("submit", async (event) => {
        event.preventDefault();
        const form = event.target;
        const code = form.elements.code.value.trim().toUpperCase();
        const { ok, data } = await post("/api/rooms/join", {
          roomCode: code,
          visitorId,
          nickname: form.elements.nickname.value.trim()
        });
        const out = document.getElementById("joinResult");
        if (!ok) {
          out.textContent = data.error || "Failed to join room.";
          return;
        }
        window.location.href = "/rooms/" + data.room.code;
      });

      const ws = new WebSocket((location.protocol === "https:" ? "wss://" : "ws://") + location.host + "/ws/home");
      ws.addEventListener("message", (event) => {
        const msg = JSON.parse(event.data);
        if (msg.html !== undefined) {
          document.getElementById("roomList").innerHTML = msg.html;
        }
      });
    </script>
  </body>
</html>
`)
		return nil
	})
}

// ActiveRoomsList renders the open rooms as a list fragment.
func ActiveRoomsList(rooms []RoomSummary) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if len(rooms) == 0 {
			_, err := io.WriteString(w, `<p class="muted">No open rooms yet.</p>`)
			return err
		}
		_, _ = io.WriteString(w, `<ul class="rooms">`)
		for _, room := range rooms {
			status := "waiting"
			if room.Playing {
				status = "playing"
			}
			_, _ = io.WriteString(w, `<li><a href="/rooms/`+esc(room.Code)+`">`+esc(room.Name)+`</a>`+
				`<span class="muted">`+esc(room.Code)+` &middot; host `+esc(room.HostName)+` &middot; `+
				itoa(room.Players)+`/`+itoa(room.MaxCards)+` &middot; `+status+`</span></li>`)
		}
		_, err := io.WriteString(w, `</ul>`)
		return err
	})
}
