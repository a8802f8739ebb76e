/*
Package document applies deep assignments to stored documents.

A Manager loads a document, writes into it with a deepset.Setter and saves it back,
serializing concurrent writers per document ID with in-process mutexes and, when
configured, a distributed lock shared by every replica using the same store.
*/
package document
