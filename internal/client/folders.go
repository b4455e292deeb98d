// ABOUTME: Folder CRUD endpoints
// ABOUTME: Names are validated locally before any request

package client

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// ErrEmptyFolderName is the local validation failure for blank names
var ErrEmptyFolderName = errors.New("Veuillez entrer un nom de dossier")

// ListFoldersRequest builds the listing call for a parent folder, zero for the root
func ListFoldersRequest(parentID ID) Request {
	r := Request{Path: "/folders/list", RequireAuth: true}
	if parentID != 0 {
		r.Query = url.Values{"parent_id": {parentID.String()}}
	}
	return r
}

// ListFolders lists the child folders of parentID
func (c *Client) ListFolders(ctx context.Context, parentID ID) ([]Folder, error) {
	var resp FolderList
	if err := c.Do(ctx, ListFoldersRequest(parentID), &resp); err != nil {
		return nil, err
	}
	return resp.Folders, nil
}

// CreateFolder creates a folder under parentID, zero for the root
func (c *Client) CreateFolder(ctx context.Context, name string, parentID ID) (*CreatedFolder, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyFolderName
	}

	body := struct {
		Name     string `json:"name"`
		ParentID *ID    `json:"parent_id"`
	}{Name: name}
	if parentID != 0 {
		body.ParentID = &parentID
	}

	var res CreatedFolder
	err := c.Do(ctx, Request{
		Method:       http.MethodPost,
		Path:         "/folders/create",
		Body:         body,
		RequireAuth:  true,
		DefaultError: "Erreur lors de la création du dossier",
	}, &res)
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// RenameFolder changes a folder's name
func (c *Client) RenameFolder(ctx context.Context, id ID, name string) (*Folder, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyFolderName
	}

	var f Folder
	err := c.Do(ctx, Request{
		Method:       http.MethodPatch,
		Path:         "/folders/" + id.String(),
		Body:         map[string]string{"name": name},
		RequireAuth:  true,
		DefaultError: "Erreur lors du renommage du dossier",
	}, &f)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

// DeleteFolder removes a folder. The backend refuses a non-empty folder
// unless recursive is set, in which case its sub-folders and files go too.
func (c *Client) DeleteFolder(ctx context.Context, id ID, recursive bool) error {
	return c.Do(ctx, Request{
		Method:       http.MethodDelete,
		Path:         "/folders/" + id.String(),
		Query:        url.Values{"recursive": {strconv.FormatBool(recursive)}},
		RequireAuth:  true,
		DefaultError: "Erreur lors de la suppression du dossier",
	}, nil)
}
