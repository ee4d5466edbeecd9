package live

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"time"

	ws "github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/comitanigiacomo/kanso-wallpaper/internal/adapters/canvas"
	"github.com/comitanigiacomo/kanso-wallpaper/internal/core/domain"
	"github.com/comitanigiacomo/kanso-wallpaper/internal/core/workers"
)

const (
	sendBufferSize = 16
	pingInterval   = 30 * time.Second
	readLimit      = 64 << 10
)

const (
	msgDraft         = "draft"
	msgVisible       = "visible"
	msgFrame         = "frame"
	msgError         = "error"
	msgSettingsSaved = "settings_saved"
)

type inbound struct {
	Type     string                    `json:"type"`
	Settings *domain.WallpaperSettings `json:"settings,omitempty"`
	Visible  *bool                     `json:"visible,omitempty"`
}

type outbound struct {
	Type    string    `json:"type"`
	Kind    string    `json:"kind,omitempty"`
	Version uint64    `json:"version,omitempty"`
	Image   string    `json:"image,omitempty"`
	Error   string    `json:"error,omitempty"`
	At      time.Time `json:"at"`
}

// Client is one live preview connection.
type Client struct {
	hub     *Hub
	conn    *ws.Conn
	userID  string
	send    chan []byte
	saved   chan struct{}
	session *workers.PreviewSession
}

func NewClient(hub *Hub, conn *ws.Conn, userID string) *Client {
	c := &Client{
		hub:    hub,
		conn:   conn,
		userID: userID,
		send:   make(chan []byte, sendBufferSize),
		saved:  make(chan struct{}, 1),
	}
	c.session = workers.NewPreviewSession(userID, hub.previewer, c.publish, hub.cfg.Preview, hub.logger)
	return c
}

// Run registers the client, starts the preview session and the write pump,
// and reads until the connection closes.
func (c *Client) Run(ctx context.Context) {
	c.hub.Register(c)

	ctx, cancel := context.WithCancel(ctx)
	defer func() {
		cancel()
		<-c.session.Done()
		c.hub.Unregister(c)
	}()

	c.conn.SetReadLimit(readLimit)
	c.session.Start(ctx)
	go c.writePump(ctx)

	c.reload(ctx)
	c.readPump(ctx)
}

func (c *Client) reload(ctx context.Context) {
	settings, err := c.hub.previewer.SettingsForUser(ctx, c.userID)
	if err != nil {
		c.hub.logger.Warn("live preview: load settings failed", "user_id", c.userID, "error", err)
		c.enqueue(outbound{Type: msgError, Error: "could not load settings"})
		return
	}
	c.session.Replace(*settings)
}

func (c *Client) readPump(ctx context.Context) {
	for {
		var msg inbound
		if err := wsjson.Read(ctx, c.conn, &msg); err != nil {
			return
		}

		switch msg.Type {
		case msgDraft:
			if msg.Settings != nil {
				c.session.Submit(*msg.Settings)
			}
		case msgVisible:
			c.session.SetVisible(msg.Visible == nil || *msg.Visible)
		default:
			c.hub.logger.Debug("live preview: unknown message", "user_id", c.userID, "type", msg.Type)
		}
	}
}

func (c *Client) writePump(ctx context.Context) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case msg := <-c.send:
			if err := c.conn.Write(ctx, ws.MessageText, msg); err != nil {
				return
			}
		case <-c.saved:
			c.enqueue(outbound{Type: msgSettingsSaved})
			go c.reload(ctx)
		case <-ticker.C:
			if err := c.conn.Ping(ctx); err != nil {
				return
			}
		case <-ctx.Done():
			return
		}
	}
}

// publish runs on the session's goroutines.
func (c *Client) publish(f workers.Frame) {
	if f.Kind == workers.FrameError {
		c.enqueue(outbound{Type: msgError, Version: f.Version, Error: "render failed", At: f.At})
		return
	}

	img := canvas.Downscale(f.Image, c.hub.cfg.Scale)
	png, err := c.hub.encoder.EncodePNG(img)
	if err != nil {
		c.hub.logger.Warn("live preview: encode failed", "user_id", c.userID, "error", err)
		return
	}

	c.enqueue(outbound{
		Type:    msgFrame,
		Kind:    string(f.Kind),
		Version: f.Version,
		Image:   "data:image/png;base64," + base64.StdEncoding.EncodeToString(png),
		At:      f.At,
	})
}

// enqueue drops the message when the client cannot keep up.
func (c *Client) enqueue(msg outbound) {
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}

	select {
	case c.send <- data:
	default:
		c.hub.logger.Warn("live preview: send buffer full, dropping", "user_id", c.userID, "type", msg.Type)
	}
}
