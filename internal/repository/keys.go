package repository

// Keyspace renders Redis keys under a deployment-wide prefix so several
// environments can share one Redis database.
type Keyspace struct{ Prefix string }

func (k Keyspace) User(userID string) string { return k.Prefix + ":user:" + userID }

func (k Keyspace) Thread(threadID string) string { return k.Prefix + ":thread:" + threadID }

// ThreadMessages is the sorted set indexing a thread's message ids by
// creation time.
func (k Keyspace) ThreadMessages(threadID string) string {
	return k.Prefix + ":thread:" + threadID + ":messages"
}

func (k Keyspace) Message(threadID, messageID string) string {
	return k.Prefix + ":message:" + threadID + ":" + messageID
}
