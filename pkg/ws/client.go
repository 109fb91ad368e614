package ws

import (
	"errors"

	"github.com/gorilla/websocket"
)

type messageInfo struct {
	msg             []byte
	needCompression bool
}

// Client wraps a websocket connection with buffered reader and writer pumps.
// Received text frames are decompressed and delivered on R; the channel is
// closed when the connection drops.
type Client struct {
	Conn *websocket.Conn
	R    chan []byte
	W    chan messageInfo
}

func NewClient(conn *websocket.Conn) *Client {
	if conn == nil {
		return nil
	}

	c := &Client{
		Conn: conn,
		R:    make(chan []byte, 128),
		W:    make(chan messageInfo, 128),
	}

	go c.runReader()
	go c.runWriter()
	return c
}

func (c *Client) runReader() {
	defer close(c.R)

	for {
		t, msg, err := c.Conn.ReadMessage()
		if err != nil {
			return
		}

		if t == websocket.CloseMessage {
			return
		}

		if t == websocket.TextMessage {
			// Frames between proxy and engine are compressed; frames to
			// end clients are not.
			originMsg, err := Decompress(msg)
			if err != nil {
				originMsg = msg
			}

			c.R <- originMsg
		}
	}
}

func (c *Client) runWriter() {
	defer close(c.W)

	for {
		msgInfo := <-c.W

		msg := msgInfo.msg
		if msgInfo.needCompression {
			var err error
			msg, err = Compress(msgInfo.msg)
			if err != nil {
				continue
			}
		}

		if err := c.Conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			break
		}
	}
}

// Write queues msg on the writer pump. It returns an error instead of
// panicking if the connection has already been closed.
func (c *Client) Write(msg []byte, needCompression bool) (err error) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}

		if s, ok := r.(string); ok {
			err = errors.New(s)
		} else {
			err = errors.New("connection is closed")
		}
	}()

	c.W <- messageInfo{msg: msg, needCompression: needCompression}
	return nil
}

func (c *Client) Close() error {
	return c.Conn.Close()
}
