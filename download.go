package telegrask

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"path/filepath"

	"github.com/go-telegram/bot"

	"github.com/telegrask/telegrask/httpclient"
)

// File is a downloaded Telegram file.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// DownloadFile fetches a file by its Telegram file ID. The token must match
// the one the bot was created with; Telegram serves file content on a
// token-scoped URL outside the bot API.
func DownloadFile(ctx context.Context, api *bot.Bot, token, fileID string, client *httpclient.Client) (*File, error) {
	f, err := api.GetFile(ctx, &bot.GetFileParams{FileID: fileID})
	if err != nil {
		return nil, Wrap(err, "telegrask: get file")
	}

	u := "https://api.telegram.org/file/bot" + token + "/" + f.FilePath
	req, err := http.NewRequest(http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(ctx, req)
	if err != nil {
		return nil, Wrap(err, "telegrask: download file")
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("telegrask: download file: status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, Wrap(err, "telegrask: read file body")
	}

	name := filepath.Base(f.FilePath)
	ct := resp.Header.Get("Content-Type")
	if ct == "" || ct == "application/octet-stream" {
		if byExt := mime.TypeByExtension(filepath.Ext(name)); byExt != "" {
			ct = byExt
		} else {
			ct = "application/octet-stream"
		}
	}
	return &File{Name: name, ContentType: ct, Data: data}, nil
}
