package cache

import "fmt"

const (
	PostPageKeyPrefix = "page:post:%s"
	StalePagesChannel = "pages:stale"
)

func PostPageKey(postID string) string {
	return fmt.Sprintf(PostPageKeyPrefix, postID)
}
