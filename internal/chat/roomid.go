package chat

// RoomKey derives the canonical room ID for a pair of users. The two IDs are
// joined in lexicographic order, so RoomKey(a, b) == RoomKey(b, a) and the
// same room is found no matter which participant starts the conversation.
func RoomKey(userID1, userID2 string) string {
	if userID2 < userID1 {
		userID1, userID2 = userID2, userID1
	}
	return userID1 + "_" + userID2
}
