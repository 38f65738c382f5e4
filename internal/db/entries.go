package db

// PostEntry é um post com o nome de usuário do autor já resolvido,
// no formato consumido pelas páginas.
type PostEntry struct {
	Post
	Author string
}

func (r ListPostsRow) Entry() PostEntry {
	return PostEntry{
		Post: Post{
			ID:         r.ID,
			UserID:     r.UserID,
			Title:      r.Title,
			Content:    r.Content,
			DatePosted: r.DatePosted,
		},
		Author: r.Author,
	}
}

func (r GetPostEntryRow) Entry() PostEntry {
	return PostEntry{
		Post: Post{
			ID:         r.ID,
			UserID:     r.UserID,
			Title:      r.Title,
			Content:    r.Content,
			DatePosted: r.DatePosted,
		},
		Author: r.Author,
	}
}
